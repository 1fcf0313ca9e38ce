package compliance

import (
	"sort"
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// UnitCycleProgress is the compliance state of one unit for one cycle
type UnitCycleProgress struct {
	Cycle         types.Cycle        `json:"cycle"`
	Approved      int                `json:"approved"`
	Required      int                `json:"required"`
	ActionPlanNA  bool               `json:"action_plan_na"`
	ApprovedTypes []types.ReportType `json:"approved_types"`
	Complete      bool               `json:"complete"`
}

// UnitProgress is the compliance state of one unit over the filter scope
type UnitProgress struct {
	UnitID          types.UnitID        `json:"unit_id"`
	UnitName        string              `json:"unit_name"`
	CampusIDs       []types.CampusID    `json:"campus_ids"`
	ApprovedCount   int                 `json:"approved_count"`
	TotalRequired   int                 `json:"total_required"`
	ProgressPercent float64             `json:"progress_percent"`
	Cycles          []UnitCycleProgress `json:"cycles"`
}

// Compliant reports whether every cycle in scope is complete
func (p *UnitProgress) Compliant() bool {
	if len(p.Cycles) == 0 {
		return false
	}
	for _, c := range p.Cycles {
		if !c.Complete {
			return false
		}
	}
	return true
}

// ReportTypeCoverage is one row of the report type heatmap
type ReportTypeCoverage struct {
	ReportType          types.ReportType `json:"report_type"`
	Label               string           `json:"label"`
	UnitsSubmittedCount int              `json:"units_submitted_count"`
	TotalUnits          int              `json:"total_units"`
	// NotApplicableCount is only non-zero for the Action Plan: units whose
	// Action Plan is N/A in every cycle in scope
	NotApplicableCount int `json:"not_applicable_count"`
}

// CampusProgress groups unit progress by campus membership
type CampusProgress struct {
	CampusID        types.CampusID `json:"campus_id"`
	CampusName      string         `json:"campus_name"`
	Units           int            `json:"units"`
	ApprovedCount   int            `json:"approved_count"`
	TotalRequired   int            `json:"total_required"`
	ProgressPercent float64        `json:"progress_percent"`
	CompliantUnits  int            `json:"compliant_units"`
}

// CycleRollup counts compliant units per (year, cycle)
type CycleRollup struct {
	Year            int         `json:"year"`
	Cycle           types.Cycle `json:"cycle"`
	CompliantUnits  int         `json:"compliant_units"`
	TotalUnits      int         `json:"total_units"`
	ProgressPercent float64     `json:"progress_percent"`
}

// NonComplianceEntry is a unit that missed required reports in an ended cycle
type NonComplianceEntry struct {
	Year      int                `json:"year"`
	Cycle     types.Cycle        `json:"cycle"`
	CycleName string             `json:"cycle_name"`
	EndedAt   time.Time          `json:"ended_at"`
	UnitID    types.UnitID       `json:"unit_id"`
	UnitName  string             `json:"unit_name"`
	Missing   []types.ReportType `json:"missing"`
}

// TrendPoint is the submission count of one calendar month
type TrendPoint struct {
	Month    string `json:"month"` // YYYY-MM
	Count    int    `json:"count"`
	Approved int    `json:"approved"`
}

// Dashboard is every aggregate for one filter
type Dashboard struct {
	Year       int                  `json:"year"`
	Cycle      types.Cycle          `json:"cycle,omitempty"`
	Units      []UnitProgress       `json:"units"`
	Coverage   []ReportTypeCoverage `json:"coverage"`
	Campuses   []CampusProgress     `json:"campuses"`
	Cycles     []CycleRollup        `json:"cycles"`
	Trend      []TrendPoint         `json:"trend"`
	RiskMatrix RiskMatrix           `json:"risk_matrix"`
	RiskFunnel []FunnelSeries       `json:"risk_funnel"`
}

func unitsInScope(units []*model.Unit, f Filter) []*model.Unit {
	out := make([]*model.Unit, 0, len(units))
	for _, u := range units {
		if u != nil && f.matchUnit(u.ID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func unitProgress(u *model.Unit, idx index, f Filter) UnitProgress {
	p := UnitProgress{
		UnitID:    u.ID,
		UnitName:  u.Name,
		CampusIDs: append([]types.CampusID(nil), u.CampusIDs...),
		Cycles:    make([]UnitCycleProgress, 0, 2),
	}

	for _, c := range f.cycles() {
		st := idx.get(u.ID, f.Year, c)
		approvedTypes := st.approvedTypes()
		required := st.required()

		cp := UnitCycleProgress{
			Cycle:         c,
			Approved:      len(approvedTypes),
			Required:      required,
			ActionPlanNA:  st.actionPlanNA(),
			ApprovedTypes: approvedTypes,
			Complete:      len(approvedTypes) >= required,
		}
		p.Cycles = append(p.Cycles, cp)
		p.ApprovedCount += cp.Approved
		p.TotalRequired += cp.Required
	}

	p.ProgressPercent = Percent(p.ApprovedCount, p.TotalRequired)
	return p
}

// UnitProgresses computes per-unit progress ordered by unit ID
func UnitProgresses(snap Snapshot, f Filter) []UnitProgress {
	return unitProgresses(snap, buildIndex(snap.Submissions), f)
}

func unitProgresses(snap Snapshot, idx index, f Filter) []UnitProgress {
	units := unitsInScope(snap.Units, f)
	out := make([]UnitProgress, 0, len(units))
	for _, u := range units {
		out = append(out, unitProgress(u, idx, f))
	}
	return out
}

// Coverage computes the report type heatmap
func Coverage(snap Snapshot, f Filter) []ReportTypeCoverage {
	return coverage(snap, buildIndex(snap.Submissions), f)
}

func coverage(snap Snapshot, idx index, f Filter) []ReportTypeCoverage {
	units := unitsInScope(snap.Units, f)
	out := make([]ReportTypeCoverage, 0, types.RequiredReportCount)

	for _, rt := range types.AllReportTypes() {
		row := ReportTypeCoverage{
			ReportType: rt,
			Label:      rt.Label(),
			TotalUnits: len(units),
		}
		for _, u := range units {
			submitted := false
			allNA := true
			for _, c := range f.cycles() {
				st := idx.get(u.ID, f.Year, c)
				if st != nil && st.present[rt] {
					submitted = true
				}
				if !st.actionPlanNA() {
					allNA = false
				}
			}
			if submitted {
				row.UnitsSubmittedCount++
			}
			if rt == types.ReportTypeActionPlan && allNA {
				row.NotApplicableCount++
			}
		}
		out = append(out, row)
	}
	return out
}

// CampusProgresses groups unit progress by campus. A unit under two
// campuses counts fully in both. Campus IDs referenced by units but absent
// from the campus list use the ID as name.
func CampusProgresses(snap Snapshot, f Filter) []CampusProgress {
	return campusProgresses(snap, unitProgresses(snap, buildIndex(snap.Submissions), f))
}

func campusProgresses(snap Snapshot, units []UnitProgress) []CampusProgress {
	byID := map[types.CampusID]*CampusProgress{}
	for _, c := range snap.Campuses {
		if c == nil {
			continue
		}
		byID[c.ID] = &CampusProgress{CampusID: c.ID, CampusName: c.Name}
	}

	for _, u := range units {
		seen := map[types.CampusID]bool{}
		for _, cid := range u.CampusIDs {
			if seen[cid] {
				continue
			}
			seen[cid] = true

			cp, ok := byID[cid]
			if !ok {
				cp = &CampusProgress{CampusID: cid, CampusName: string(cid)}
				byID[cid] = cp
			}
			cp.Units++
			cp.ApprovedCount += u.ApprovedCount
			cp.TotalRequired += u.TotalRequired
			if u.Compliant() {
				cp.CompliantUnits++
			}
		}
	}

	out := make([]CampusProgress, 0, len(byID))
	for _, cp := range byID {
		cp.ProgressPercent = Percent(cp.ApprovedCount, cp.TotalRequired)
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CampusID < out[j].CampusID })
	return out
}

// CycleRollups counts compliant units per cycle in scope
func CycleRollups(snap Snapshot, f Filter) []CycleRollup {
	return cycleRollups(unitProgresses(snap, buildIndex(snap.Submissions), f), f)
}

func cycleRollups(units []UnitProgress, f Filter) []CycleRollup {
	out := make([]CycleRollup, 0, 2)
	for i, c := range f.cycles() {
		r := CycleRollup{Year: f.Year, Cycle: c, TotalUnits: len(units)}
		for _, u := range units {
			if u.Cycles[i].Complete {
				r.CompliantUnits++
			}
		}
		r.ProgressPercent = Percent(r.CompliantUnits, r.TotalUnits)
		out = append(out, r)
	}
	return out
}

// NonCompliance lists, for every cycle whose end date is before now, the
// units missing a required report. Non-rejected submissions count as
// present. Cycles without an end date are skipped. Only Filter.UnitID is
// applied; year and cycle come from the cycle entities.
func NonCompliance(snap Snapshot, f Filter, now time.Time) []NonComplianceEntry {
	idx := buildIndex(snap.Submissions)
	units := unitsInScope(snap.Units, f)

	cycles := make([]*model.Cycle, 0, len(snap.Cycles))
	for _, c := range snap.Cycles {
		if c != nil && c.Ended(now) {
			cycles = append(cycles, c)
		}
	}
	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i].Year != cycles[j].Year {
			return cycles[i].Year < cycles[j].Year
		}
		return cycles[i].EndAt.Before(cycles[j].EndAt)
	})

	var out []NonComplianceEntry
	for _, c := range cycles {
		for _, u := range units {
			missing := idx.get(u.ID, c.Year, c.Cycle).missingTypes()
			if len(missing) == 0 {
				continue
			}
			out = append(out, NonComplianceEntry{
				Year:      c.Year,
				Cycle:     c.Cycle,
				CycleName: c.Name,
				EndedAt:   c.EndAt,
				UnitID:    u.ID,
				UnitName:  u.Name,
				Missing:   missing,
			})
		}
	}
	return out
}

// SubmissionTrend groups in-scope submissions by calendar month (UTC) of
// SubmittedAt. Submissions without a timestamp are left out.
func SubmissionTrend(snap Snapshot, f Filter) []TrendPoint {
	cycles := map[types.Cycle]bool{}
	for _, c := range f.cycles() {
		cycles[c] = true
	}

	byMonth := map[string]*TrendPoint{}
	for _, s := range snap.Submissions {
		if s == nil || s.Year != f.Year || !cycles[s.Cycle] || !f.matchUnit(s.UnitID) {
			continue
		}
		if s.SubmittedAt.IsZero() || s.SubmittedAt.Year() < 1970 {
			continue
		}
		month := s.SubmittedAt.UTC().Format("2006-01")
		p, ok := byMonth[month]
		if !ok {
			p = &TrendPoint{Month: month}
			byMonth[month] = p
		}
		p.Count++
		if s.Status == types.SubmissionStatusApproved {
			p.Approved++
		}
	}

	out := make([]TrendPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Build assembles every aggregate for the filter
func Build(snap Snapshot, f Filter) *Dashboard {
	idx := buildIndex(snap.Submissions)
	units := unitProgresses(snap, idx, f)

	return &Dashboard{
		Year:       f.Year,
		Cycle:      f.Cycle,
		Units:      units,
		Coverage:   coverage(snap, idx, f),
		Campuses:   campusProgresses(snap, units),
		Cycles:     cycleRollups(units, f),
		Trend:      SubmissionTrend(snap, f),
		RiskMatrix: BuildRiskMatrix(snap.Risks, f),
		RiskFunnel: BuildRiskFunnel(snap.Risks, f),
	}
}
