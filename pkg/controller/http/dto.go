package http

import (
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Request bodies

type campusRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type unitRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	CampusIDs []string `json:"campus_ids" validate:"required,min=1,dive,required"`
}

type cycleRequest struct {
	Year    int       `json:"year" validate:"required,gte=2000,lte=9999"`
	Cycle   string    `json:"cycle" validate:"required,cycle"`
	Name    string    `json:"name" validate:"max=200"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type submissionRequest struct {
	UnitID     string `json:"unit_id" validate:"required"`
	CampusID   string `json:"campus_id" validate:"required"`
	Year       int    `json:"year" validate:"required,gte=2000,lte=9999"`
	Cycle      string `json:"cycle" validate:"required,cycle"`
	ReportType string `json:"report_type" validate:"required,report_type"`
	RiskRating string `json:"risk_rating" validate:"omitempty,risk_rating"`
	Link       string `json:"link" validate:"omitempty,url,max=2048"`
	Title      string `json:"title" validate:"max=300"`
	// Draft stores the submission as pending instead of submitting it
	Draft bool `json:"draft"`
}

type reviewRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type rejectRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

type resubmitRequest struct {
	Link  string `json:"link" validate:"required,url,max=2048"`
	Title string `json:"title" validate:"max=300"`
}

type riskRequest struct {
	UnitID      string `json:"unit_id" validate:"required"`
	CampusID    string `json:"campus_id" validate:"required"`
	Year        int    `json:"year" validate:"required,gte=2000,lte=9999"`
	Type        string `json:"type" validate:"required,risk_type"`
	Likelihood  int    `json:"likelihood" validate:"required,gte=1,lte=5"`
	Consequence int    `json:"consequence" validate:"required,gte=1,lte=5"`
	Description string `json:"description" validate:"required,max=2000"`
	Treatment   string `json:"treatment" validate:"max=2000"`
}

type riskStatusRequest struct {
	Status string `json:"status" validate:"required,risk_status"`
}

type findingRequest struct {
	UnitID      string `json:"unit_id" validate:"required"`
	CampusID    string `json:"campus_id" validate:"required"`
	Year        int    `json:"year" validate:"required,gte=2000,lte=9999"`
	Kind        string `json:"kind" validate:"required,finding_kind"`
	Clause      string `json:"clause" validate:"max=50"`
	Description string `json:"description" validate:"required,max=2000"`
}

type capRequest struct {
	RootCause        string    `json:"root_cause" validate:"required,max=2000"`
	Correction       string    `json:"correction" validate:"required,max=2000"`
	CorrectiveAction string    `json:"corrective_action" validate:"required,max=2000"`
	TargetDate       time.Time `json:"target_date" validate:"required"`
}

type capReviewRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment" validate:"max=2000"`
}

type chatRequest struct {
	Query string `json:"query"`
}

type linkRequest struct {
	URL        string `json:"url" validate:"required"`
	ReportType string `json:"report_type" validate:"required,report_type"`
	Title      string `json:"title" validate:"max=300"`
}

type deletionRequest struct {
	Kind string `json:"kind" validate:"required"`
	ID   string `json:"id" validate:"required"`
}

type deletionConfirmRequest struct {
	Kind   string `json:"kind" validate:"required"`
	ID     string `json:"id" validate:"required"`
	Phrase string `json:"phrase" validate:"required"`
}

// Responses

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func newList[S any, T any](src []S, conv func(S) T) listResponse[T] {
	items := make([]T, 0, len(src))
	for _, s := range src {
		items = append(items, conv(s))
	}
	return listResponse[T]{Items: items}
}

type campusResponse struct {
	ID        types.CampusID `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toCampus(c *model.Campus) campusResponse {
	return campusResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

type unitResponse struct {
	ID        types.UnitID     `json:"id"`
	Name      string           `json:"name"`
	CampusIDs []types.CampusID `json:"campus_ids"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toUnit(u *model.Unit) unitResponse {
	return unitResponse{ID: u.ID, Name: u.Name, CampusIDs: u.CampusIDs, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type cycleResponse struct {
	ID      string      `json:"id"`
	Year    int         `json:"year"`
	Cycle   types.Cycle `json:"cycle"`
	Name    string      `json:"name"`
	StartAt *time.Time  `json:"start_at,omitempty"`
	EndAt   *time.Time  `json:"end_at,omitempty"`
}

func toCycle(c *model.Cycle) cycleResponse {
	return cycleResponse{
		ID:      c.ID,
		Year:    c.Year,
		Cycle:   c.Cycle,
		Name:    c.Name,
		StartAt: optTime(c.StartAt),
		EndAt:   optTime(c.EndAt),
	}
}

type submissionResponse struct {
	ID              model.SubmissionID     `json:"id"`
	UnitID          types.UnitID           `json:"unit_id"`
	CampusID        types.CampusID         `json:"campus_id"`
	Year            int                    `json:"year"`
	Cycle           types.Cycle            `json:"cycle"`
	ReportType      types.ReportType       `json:"report_type"`
	ReportTypeLabel string                 `json:"report_type_label"`
	Status          types.SubmissionStatus `json:"status"`
	RiskRating      types.RiskRating       `json:"risk_rating,omitempty"`
	Link            string                 `json:"link"`
	Title           string                 `json:"title"`
	SubmittedBy     string                 `json:"submitted_by"`
	ReviewedBy      string                 `json:"reviewed_by,omitempty"`
	ReviewerComment string                 `json:"reviewer_comment,omitempty"`
	SubmittedAt     *time.Time             `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time             `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func toSubmission(s *model.Submission) submissionResponse {
	return submissionResponse{
		ID:              s.ID,
		UnitID:          s.UnitID,
		CampusID:        s.CampusID,
		Year:            s.Year,
		Cycle:           s.Cycle,
		ReportType:      s.ReportType,
		ReportTypeLabel: s.ReportType.Label(),
		Status:          s.Status,
		RiskRating:      s.RiskRating,
		Link:            s.Link,
		Title:           s.Title,
		SubmittedBy:     s.SubmittedBy,
		ReviewedBy:      s.ReviewedBy,
		ReviewerComment: s.ReviewerComment,
		SubmittedAt:     optTime(s.SubmittedAt),
		ReviewedAt:      optTime(s.ReviewedAt),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type riskResponse struct {
	ID          model.RiskID     `json:"id"`
	UnitID      types.UnitID     `json:"unit_id"`
	CampusID    types.CampusID   `json:"campus_id"`
	Year        int              `json:"year"`
	Type        types.RiskType   `json:"type"`
	Status      types.RiskStatus `json:"status"`
	Likelihood  int              `json:"likelihood"`
	Consequence int              `json:"consequence"`
	Magnitude   int              `json:"magnitude"`
	Rating      types.RiskRating `json:"rating"`
	Description string           `json:"description"`
	Treatment   string           `json:"treatment"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toRisk(r *model.Risk) riskResponse {
	magnitude, _ := r.Magnitude()
	return riskResponse{
		ID:          r.ID,
		UnitID:      r.UnitID,
		CampusID:    r.CampusID,
		Year:        r.Year,
		Type:        r.Type,
		Status:      r.Status,
		Likelihood:  r.Likelihood,
		Consequence: r.Consequence,
		Magnitude:   magnitude,
		Rating:      r.Rating,
		Description: r.Description,
		Treatment:   r.Treatment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type findingResponse struct {
	ID          model.FindingID     `json:"id"`
	UnitID      types.UnitID        `json:"unit_id"`
	CampusID    types.CampusID      `json:"campus_id"`
	Year        int                 `json:"year"`
	Kind        types.FindingKind   `json:"kind"`
	Clause      string              `json:"clause"`
	Description string              `json:"description"`
	Status      types.FindingStatus `json:"status"`
	RaisedBy    string              `json:"raised_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toFinding(f *model.AuditFinding) findingResponse {
	return findingResponse{
		ID:          f.ID,
		UnitID:      f.UnitID,
		CampusID:    f.CampusID,
		Year:        f.Year,
		Kind:        f.Kind,
		Clause:      f.Clause,
		Description: f.Description,
		Status:      f.Status,
		RaisedBy:    f.RaisedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

type capResponse struct {
	ID               model.CAPID     `json:"id"`
	FindingID        model.FindingID `json:"finding_id"`
	UnitID           types.UnitID    `json:"unit_id"`
	RootCause        string          `json:"root_cause"`
	Correction       string          `json:"correction"`
	CorrectiveAction string          `json:"corrective_action"`
	TargetDate       time.Time       `json:"target_date"`
	Status           types.CAPStatus `json:"status"`
	SubmittedBy      string          `json:"submitted_by"`
	ReviewedBy       string          `json:"reviewed_by,omitempty"`
	ReviewerComment  string          `json:"reviewer_comment,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toCAP(c *model.CorrectiveActionPlan) capResponse {
	return capResponse{
		ID:               c.ID,
		FindingID:        c.FindingID,
		UnitID:           c.UnitID,
		RootCause:        c.RootCause,
		Correction:       c.Correction,
		CorrectiveAction: c.CorrectiveAction,
		TargetDate:       c.TargetDate,
		Status:           c.Status,
		SubmittedBy:      c.SubmittedBy,
		ReviewedBy:       c.ReviewedBy,
		ReviewerComment:  c.ReviewerComment,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

type chatLogResponse struct {
	ID        model.ChatLogID `json:"id"`
	UserID    string          `json:"user_id"`
	Query     string          `json:"query"`
	Response  string          `json:"response"`
	Fallback  bool            `json:"fallback"`
	CreatedAt time.Time       `json:"created_at"`
}

func toChatLog(l *model.ChatLog) chatLogResponse {
	return chatLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Query:     l.Query,
		Response:  l.Response,
		Fallback:  l.Fallback,
		CreatedAt: l.CreatedAt,
	}
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
