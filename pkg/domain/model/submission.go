package model

import (
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Submission is one report document handed in by a unit for a cycle. The
// document itself lives on an external file host; Link points at it.
type Submission struct {
	ID         SubmissionID
	UnitID     types.UnitID
	CampusID   types.CampusID
	Year       int
	Cycle      types.Cycle
	ReportType types.ReportType
	Status     types.SubmissionStatus

	// RiskRating is only carried by Risk and Opportunity Registry submissions.
	// Empty means the unit did not declare a rating.
	RiskRating types.RiskRating

	Link            string
	Title           string
	SubmittedBy     string
	ReviewedBy      string
	ReviewerComment string

	SubmittedAt time.Time
	ReviewedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy of the submission
func (s *Submission) Clone() *Submission {
	c := *s
	return &c
}

// IsRegistry reports whether this is a Risk and Opportunity Registry submission
func (s *Submission) IsRegistry() bool {
	return s.ReportType == types.ReportTypeRiskRegistry
}
