// Package compliance computes dashboard aggregates from already fetched
// collections. Every function is pure: no I/O, no clock, and the input
// order does not matter.
package compliance

import (
	"math"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Snapshot is the set of collections an aggregation runs over
type Snapshot struct {
	Submissions []*model.Submission
	Units       []*model.Unit
	Campuses    []*model.Campus
	Cycles      []*model.Cycle
	Risks       []*model.Risk
}

// Filter narrows an aggregation. Cycle and UnitID are optional.
type Filter struct {
	Year   int
	Cycle  types.Cycle
	UnitID types.UnitID
}

// cycles returns the cycles in scope
func (f Filter) cycles() []types.Cycle {
	if f.Cycle != "" {
		return []types.Cycle{f.Cycle}
	}
	return types.AllCycles()
}

func (f Filter) matchUnit(id types.UnitID) bool {
	return f.UnitID == "" || f.UnitID == id
}

// Percent returns part/whole*100 rounded to one decimal. A zero whole
// yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
