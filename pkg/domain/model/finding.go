package model

import (
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// AuditFinding is raised by the quality assurance office during an internal audit
type AuditFinding struct {
	ID          FindingID
	UnitID      types.UnitID
	CampusID    types.CampusID
	Year        int
	Kind        types.FindingKind
	Clause      string
	Description string
	Status      types.FindingStatus
	RaisedBy    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy of the finding
func (f *AuditFinding) Clone() *AuditFinding {
	c := *f
	return &c
}

// CorrectiveActionPlan is a unit's answer to an audit finding
type CorrectiveActionPlan struct {
	ID               CAPID
	FindingID        FindingID
	UnitID           types.UnitID
	RootCause        string
	Correction       string
	CorrectiveAction string
	TargetDate       time.Time
	Status           types.CAPStatus
	SubmittedBy      string
	ReviewedBy       string
	ReviewerComment  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a copy of the plan
func (c *CorrectiveActionPlan) Clone() *CorrectiveActionPlan {
	n := *c
	return &n
}
