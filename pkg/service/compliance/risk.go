package compliance

import (
	"sort"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// MatrixPoint is one occupied cell of the likelihood x consequence grid
type MatrixPoint struct {
	Likelihood  int              `json:"likelihood"`
	Consequence int              `json:"consequence"`
	Magnitude   int              `json:"magnitude"`
	Rating      types.RiskRating `json:"rating"`
	Count       int              `json:"count"`
	RiskIDs     []model.RiskID   `json:"risk_ids"`
}

// RiskMatrix is the scatter-ready risk distribution
type RiskMatrix struct {
	Points   []MatrixPoint            `json:"points"`
	ByRating map[types.RiskRating]int `json:"by_rating"`
	Total    int                      `json:"total"`
	// Skipped counts risks whose likelihood or consequence is outside 1-5
	Skipped int `json:"skipped"`
}

// FunnelStage is the count of one status
type FunnelStage struct {
	Status types.RiskStatus `json:"status"`
	Count  int              `json:"count"`
}

// FunnelSeries is the status funnel of one risk type
type FunnelSeries struct {
	Type   types.RiskType `json:"type"`
	Stages []FunnelStage  `json:"stages"`
	Total  int            `json:"total"`
}

func matchRisk(r *model.Risk, f Filter) bool {
	return r != nil && r.Year == f.Year && f.matchUnit(r.UnitID)
}

// BuildRiskMatrix places in-scope risks on the grid. Points are sorted by
// magnitude, then likelihood, both descending.
func BuildRiskMatrix(risks []*model.Risk, f Filter) RiskMatrix {
	type cell struct{ l, c int }
	cells := map[cell]*MatrixPoint{}
	m := RiskMatrix{ByRating: map[types.RiskRating]int{}}
	for _, rating := range types.AllRiskRatings() {
		m.ByRating[rating] = 0
	}

	for _, r := range risks {
		if !matchRisk(r, f) {
			continue
		}
		magnitude, ok := r.Magnitude()
		if !ok {
			m.Skipped++
			continue
		}
		rating, _ := types.RatingFromMagnitude(magnitude)

		key := cell{r.Likelihood, r.Consequence}
		p, exists := cells[key]
		if !exists {
			p = &MatrixPoint{
				Likelihood:  r.Likelihood,
				Consequence: r.Consequence,
				Magnitude:   magnitude,
				Rating:      rating,
			}
			cells[key] = p
		}
		p.Count++
		p.RiskIDs = append(p.RiskIDs, r.ID)
		m.ByRating[rating]++
		m.Total++
	}

	m.Points = make([]MatrixPoint, 0, len(cells))
	for _, p := range cells {
		sort.Slice(p.RiskIDs, func(i, j int) bool { return p.RiskIDs[i] < p.RiskIDs[j] })
		m.Points = append(m.Points, *p)
	}
	sort.Slice(m.Points, func(i, j int) bool {
		a, b := m.Points[i], m.Points[j]
		if a.Magnitude != b.Magnitude {
			return a.Magnitude > b.Magnitude
		}
		if a.Likelihood != b.Likelihood {
			return a.Likelihood > b.Likelihood
		}
		return a.Consequence > b.Consequence
	})
	return m
}

// BuildRiskFunnel counts in-scope risks per status for each risk type, in
// lifecycle order Open, In Progress, Closed. Unknown types or statuses are
// not counted.
func BuildRiskFunnel(risks []*model.Risk, f Filter) []FunnelSeries {
	counts := map[types.RiskType]map[types.RiskStatus]int{}
	for _, rt := range types.AllRiskTypes() {
		counts[rt] = map[types.RiskStatus]int{}
	}

	for _, r := range risks {
		if !matchRisk(r, f) || !r.Type.IsValid() || !r.Status.IsValid() {
			continue
		}
		counts[r.Type][r.Status]++
	}

	out := make([]FunnelSeries, 0, 2)
	for _, rt := range types.AllRiskTypes() {
		s := FunnelSeries{Type: rt}
		for _, st := range types.AllRiskStatuses() {
			n := counts[rt][st]
			s.Stages = append(s.Stages, FunnelStage{Status: st, Count: n})
			s.Total += n
		}
		out = append(out, s)
	}
	return out
}
