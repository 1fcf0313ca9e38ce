package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/utils/async"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/metrics"
)

// SubmissionInput is the form a unit coordinator fills in for one report
type SubmissionInput struct {
	UnitID     types.UnitID
	CampusID   types.CampusID
	Year       int
	Cycle      types.Cycle
	ReportType types.ReportType
	RiskRating types.RiskRating
	Link       string
	Title      string
}

// SubmissionQuery narrows List. Zero values mean no constraint.
type SubmissionQuery struct {
	Year       int
	Cycle      types.Cycle
	UnitID     types.UnitID
	ReportType types.ReportType
	Status     types.SubmissionStatus
}

type SubmissionUseCase struct {
	repo   interfaces.Repository
	notify *NotifyUseCase
	now    func() time.Time
}

func NewSubmissionUseCase(repo interfaces.Repository, notify *NotifyUseCase, now func() time.Time) *SubmissionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SubmissionUseCase{
		repo:   repo,
		notify: notify,
		now:    now,
	}
}

// SaveDraft stores a new submission as pending. The link may still be empty.
func (uc *SubmissionUseCase) SaveDraft(ctx context.Context, in SubmissionInput) (*model.Submission, error) {
	p, err := requireUnitAccess(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := uc.validateInput(ctx, in, false); err != nil {
		return nil, goerr.Wrap(err, "invalid draft")
	}

	s := newSubmission(in, p)
	s.Status = types.SubmissionStatusPending

	created, err := uc.repo.Submission().Create(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission")
	}
	metrics.RecordSubmissionTransition(created.Status.String())
	logging.From(ctx).Info("submission draft saved",
		"submission_id", created.ID, "unit_id", created.UnitID, "report_type", created.ReportType)

	return created, nil
}

// Submit creates a new submission directly in the submitted state
func (uc *SubmissionUseCase) Submit(ctx context.Context, in SubmissionInput) (*model.Submission, error) {
	p, err := requireUnitAccess(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := uc.validateInput(ctx, in, true); err != nil {
		return nil, goerr.Wrap(err, "invalid submission")
	}

	s := newSubmission(in, p)
	s.Status = types.SubmissionStatusSubmitted
	s.SubmittedAt = uc.now()

	created, err := uc.repo.Submission().Create(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission")
	}
	metrics.RecordSubmissionTransition(created.Status.String())
	logging.From(ctx).Info("submission submitted",
		"submission_id", created.ID, "unit_id", created.UnitID, "report_type", created.ReportType)

	return created, nil
}

// SubmitDraft moves a pending draft to submitted. The draft must carry a link by now.
func (uc *SubmissionUseCase) SubmitDraft(ctx context.Context, id model.SubmissionID) (*model.Submission, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := requireUnitAccess(ctx, s.UnitID)
	if err != nil {
		return nil, err
	}
	if err := checkTransitionFrom(s, types.SubmissionStatusPending, types.SubmissionStatusSubmitted); err != nil {
		return nil, err
	}
	if err := validateLink(s.Link); err != nil {
		return nil, err
	}

	s.Status = types.SubmissionStatusSubmitted
	s.SubmittedBy = p.UserID
	s.SubmittedAt = uc.now()
	return uc.save(ctx, s)
}

// Approve accepts a submitted report
func (uc *SubmissionUseCase) Approve(ctx context.Context, id model.SubmissionID, comment string) (*model.Submission, error) {
	return uc.review(ctx, id, types.SubmissionStatusApproved, comment)
}

// Reject sends a submitted report back to the unit. A comment is required.
func (uc *SubmissionUseCase) Reject(ctx context.Context, id model.SubmissionID, comment string) (*model.Submission, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, newValidationError("comment", "is required when rejecting")
	}
	return uc.review(ctx, id, types.SubmissionStatusRejected, comment)
}

// Resubmit replaces the document link of a rejected submission and submits it again
func (uc *SubmissionUseCase) Resubmit(ctx context.Context, id model.SubmissionID, link, title string) (*model.Submission, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := requireUnitAccess(ctx, s.UnitID)
	if err != nil {
		return nil, err
	}
	if err := checkTransitionFrom(s, types.SubmissionStatusRejected, types.SubmissionStatusSubmitted); err != nil {
		return nil, err
	}
	if err := validateLink(link); err != nil {
		return nil, err
	}

	s.Link = link
	if title != "" {
		s.Title = title
	}
	s.Status = types.SubmissionStatusSubmitted
	s.SubmittedBy = p.UserID
	s.SubmittedAt = uc.now()
	s.ReviewedBy = ""
	s.ReviewedAt = time.Time{}
	return uc.save(ctx, s)
}

// Get returns one submission
func (uc *SubmissionUseCase) Get(ctx context.Context, id model.SubmissionID) (*model.Submission, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

// List returns submissions matching q, ordered as the repository returns them
func (uc *SubmissionUseCase) List(ctx context.Context, q SubmissionQuery) ([]*model.Submission, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	var (
		list []*model.Submission
		err  error
	)
	switch {
	case q.UnitID != "" && q.Year != 0:
		list, err = uc.repo.Submission().ListByUnit(ctx, q.UnitID, q.Year)
	case q.Year != 0:
		list, err = uc.repo.Submission().ListByYear(ctx, q.Year)
	default:
		list, err = uc.repo.Submission().List(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list submissions")
	}

	filtered := make([]*model.Submission, 0, len(list))
	for _, s := range list {
		if q.UnitID != "" && s.UnitID != q.UnitID {
			continue
		}
		if q.Cycle != "" && s.Cycle != q.Cycle {
			continue
		}
		if q.ReportType != "" && s.ReportType != q.ReportType {
			continue
		}
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

func (uc *SubmissionUseCase) review(ctx context.Context, id model.SubmissionID, next types.SubmissionStatus, comment string) (*model.Submission, error) {
	p, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(s, next); err != nil {
		return nil, err
	}

	s.Status = next
	s.ReviewedBy = p.UserID
	s.ReviewedAt = uc.now()
	s.ReviewerComment = comment

	saved, err := uc.save(ctx, s)
	if err != nil {
		return nil, err
	}

	if uc.notify != nil {
		notified := saved.Clone()
		async.Dispatch(ctx, "notify-submission-status", func(ctx context.Context) error {
			return uc.notify.SubmissionStatusChanged(ctx, notified)
		})
	}
	return saved, nil
}

func (uc *SubmissionUseCase) get(ctx context.Context, id model.SubmissionID) (*model.Submission, error) {
	s, err := uc.repo.Submission().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V(SubmissionIDKey, id))
	}
	return s, nil
}

func (uc *SubmissionUseCase) save(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	updated, err := uc.repo.Submission().Update(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update submission", goerr.V(SubmissionIDKey, s.ID))
	}
	metrics.RecordSubmissionTransition(updated.Status.String())
	logging.From(ctx).Info("submission status changed",
		"submission_id", updated.ID, "status", updated.Status)
	return updated, nil
}

func checkTransition(s *model.Submission, next types.SubmissionStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return goerr.Wrap(ErrInvalidTransition, "submission status cannot change",
			goerr.V(SubmissionIDKey, s.ID), goerr.V(FromStatusKey, s.Status), goerr.V(ToStatusKey, next))
	}
	return nil
}

// checkTransitionFrom additionally pins the source state for operations that
// share a target status
func checkTransitionFrom(s *model.Submission, from, next types.SubmissionStatus) error {
	if s.Status != from {
		return goerr.Wrap(ErrInvalidTransition, "submission is not in the expected status",
			goerr.V(SubmissionIDKey, s.ID), goerr.V(FromStatusKey, s.Status), goerr.V(ToStatusKey, next))
	}
	return checkTransition(s, next)
}

func newSubmission(in SubmissionInput, p *auth.Principal) *model.Submission {
	return &model.Submission{
		UnitID:      in.UnitID,
		CampusID:    in.CampusID,
		Year:        in.Year,
		Cycle:       in.Cycle,
		ReportType:  in.ReportType,
		RiskRating:  in.RiskRating,
		Link:        strings.TrimSpace(in.Link),
		Title:       strings.TrimSpace(in.Title),
		SubmittedBy: p.UserID,
	}
}

func (uc *SubmissionUseCase) validateInput(ctx context.Context, in SubmissionInput, requireLink bool) error {
	fe := fieldErrors{}

	if in.Year < 2000 || in.Year > 9999 {
		fe.add("year", "must be between 2000 and 9999")
	}
	if !in.Cycle.IsValid() {
		fe.add("cycle", "must be first or final")
	}
	if !in.ReportType.IsValid() {
		fe.add("report_type", "is not a known report type")
	}
	if in.RiskRating != "" {
		if !in.RiskRating.IsValid() {
			fe.add("risk_rating", "must be low, medium or high")
		} else if in.ReportType != types.ReportTypeRiskRegistry {
			fe.add("risk_rating", "is only allowed on the risk and opportunity registry")
		}
	}
	if requireLink || strings.TrimSpace(in.Link) != "" {
		if err := validateLink(in.Link); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				fe.add("link", ve.Fields["link"])
			}
		}
	}

	unit, err := uc.repo.Unit().Get(ctx, in.UnitID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		fe.add("unit_id", "unit does not exist")
	case err != nil:
		return goerr.Wrap(err, "failed to get unit", goerr.V(UnitIDKey, in.UnitID))
	case !unit.HasCampus(in.CampusID):
		fe.add("campus_id", "unit does not belong to this campus")
	}

	return fe.err()
}

func validateLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return newValidationError("link", "is required")
	}
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return newValidationError("link", "must be an absolute URL")
	}
	if u.Scheme != "https" {
		return newValidationError("link", "must use https")
	}
	return nil
}
