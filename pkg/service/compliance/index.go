package compliance

import (
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type cycleKey struct {
	unit  types.UnitID
	year  int
	cycle types.Cycle
}

// cycleState is what one pass over the submissions knows about a
// (unit, year, cycle)
type cycleState struct {
	approved map[types.ReportType]bool
	present  map[types.ReportType]bool
	registry *model.Submission
}

func (s *cycleState) actionPlanNA() bool {
	return s != nil && s.registry != nil && s.registry.RiskRating == types.RiskRatingLow
}

func (s *cycleState) required() int {
	if s.actionPlanNA() {
		return types.RequiredReportCount - 1
	}
	return types.RequiredReportCount
}

// approvedTypes lists approved report types in display order. The Action
// Plan is left out when it is not applicable.
func (s *cycleState) approvedTypes() []types.ReportType {
	out := []types.ReportType{}
	if s == nil {
		return out
	}
	na := s.actionPlanNA()
	for _, rt := range types.AllReportTypes() {
		if na && rt == types.ReportTypeActionPlan {
			continue
		}
		if s.approved[rt] {
			out = append(out, rt)
		}
	}
	return out
}

// missingTypes lists required report types without a submitted or approved submission
func (s *cycleState) missingTypes() []types.ReportType {
	na := s.actionPlanNA()
	var out []types.ReportType
	for _, rt := range types.AllReportTypes() {
		if na && rt == types.ReportTypeActionPlan {
			continue
		}
		if s == nil || !s.present[rt] {
			out = append(out, rt)
		}
	}
	return out
}

type index map[cycleKey]*cycleState

// buildIndex makes the single pass over submissions. Submissions with an
// unknown report type or status are ignored.
func buildIndex(submissions []*model.Submission) index {
	idx := index{}
	for _, s := range submissions {
		if s == nil || !s.ReportType.IsValid() || !s.Status.IsValid() {
			continue
		}
		key := cycleKey{unit: s.UnitID, year: s.Year, cycle: s.Cycle}
		st, ok := idx[key]
		if !ok {
			st = &cycleState{
				approved: map[types.ReportType]bool{},
				present:  map[types.ReportType]bool{},
			}
			idx[key] = st
		}

		if s.Status == types.SubmissionStatusApproved {
			st.approved[s.ReportType] = true
		}
		if s.Status.IsPresent() {
			st.present[s.ReportType] = true
			if s.IsRegistry() && newerRegistry(s, st.registry) {
				st.registry = s
			}
		}
	}
	return idx
}

// newerRegistry reports whether candidate should replace current as the
// deciding registry submission: latest SubmittedAt, then UpdatedAt, then ID.
func newerRegistry(candidate, current *model.Submission) bool {
	if current == nil {
		return true
	}
	if !candidate.SubmittedAt.Equal(current.SubmittedAt) {
		return candidate.SubmittedAt.After(current.SubmittedAt)
	}
	if !candidate.UpdatedAt.Equal(current.UpdatedAt) {
		return candidate.UpdatedAt.After(current.UpdatedAt)
	}
	return candidate.ID > current.ID
}

func (idx index) get(unit types.UnitID, year int, cycle types.Cycle) *cycleState {
	return idx[cycleKey{unit: unit, year: year, cycle: cycle}]
}
