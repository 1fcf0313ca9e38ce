package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// FindingInput is an audit finding raised by the QA office
type FindingInput struct {
	UnitID      types.UnitID
	CampusID    types.CampusID
	Year        int
	Kind        types.FindingKind
	Clause      string
	Description string
}

// CAPInput is a unit's corrective action plan for a finding
type CAPInput struct {
	RootCause        string
	Correction       string
	CorrectiveAction string
	TargetDate       time.Time
}

type FindingUseCase struct {
	repo interfaces.Repository
}

func NewFindingUseCase(repo interfaces.Repository) *FindingUseCase {
	return &FindingUseCase{repo: repo}
}

// RaiseFinding records an open audit finding against a unit
func (uc *FindingUseCase) RaiseFinding(ctx context.Context, in FindingInput) (*model.AuditFinding, error) {
	p, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}

	fe := fieldErrors{}
	if in.Year < 2000 || in.Year > 9999 {
		fe.add("year", "must be between 2000 and 9999")
	}
	if !in.Kind.IsValid() {
		fe.add("kind", "must be nonconformity, observation or opportunity")
	}
	if strings.TrimSpace(in.Description) == "" {
		fe.add("description", "is required")
	}
	unit, err := uc.repo.Unit().Get(ctx, in.UnitID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		fe.add("unit_id", "unit does not exist")
	case err != nil:
		return nil, goerr.Wrap(err, "failed to get unit", goerr.V(UnitIDKey, in.UnitID))
	case in.CampusID != "" && !unit.HasCampus(in.CampusID):
		fe.add("campus_id", "unit does not belong to this campus")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	finding := &model.AuditFinding{
		UnitID:      in.UnitID,
		CampusID:    in.CampusID,
		Year:        in.Year,
		Kind:        in.Kind,
		Clause:      strings.TrimSpace(in.Clause),
		Description: strings.TrimSpace(in.Description),
		Status:      types.FindingStatusOpen,
		RaisedBy:    p.UserID,
	}

	created, err := uc.repo.Finding().Create(ctx, finding)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create finding")
	}
	logging.From(ctx).Info("audit finding raised",
		"finding_id", created.ID, "unit_id", created.UnitID, "kind", created.Kind)
	return created, nil
}

// SubmitCAP answers an open finding. The finding moves to cap-submitted.
func (uc *FindingUseCase) SubmitCAP(ctx context.Context, findingID model.FindingID, in CAPInput) (*model.CorrectiveActionPlan, error) {
	finding, err := uc.getFinding(ctx, findingID)
	if err != nil {
		return nil, err
	}
	p, err := requireUnitAccess(ctx, finding.UnitID)
	if err != nil {
		return nil, err
	}
	if finding.Status != types.FindingStatusOpen {
		return nil, goerr.Wrap(ErrInvalidTransition, "finding is not open",
			goerr.V(FindingIDKey, findingID), goerr.V(FromStatusKey, finding.Status))
	}

	fe := fieldErrors{}
	if strings.TrimSpace(in.RootCause) == "" {
		fe.add("root_cause", "is required")
	}
	if strings.TrimSpace(in.CorrectiveAction) == "" {
		fe.add("corrective_action", "is required")
	}
	if in.TargetDate.IsZero() {
		fe.add("target_date", "is required")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	plan := &model.CorrectiveActionPlan{
		FindingID:        finding.ID,
		UnitID:           finding.UnitID,
		RootCause:        strings.TrimSpace(in.RootCause),
		Correction:       strings.TrimSpace(in.Correction),
		CorrectiveAction: strings.TrimSpace(in.CorrectiveAction),
		TargetDate:       in.TargetDate,
		Status:           types.CAPStatusSubmitted,
		SubmittedBy:      p.UserID,
	}
	created, err := uc.repo.CAP().Submit(ctx, plan)
	if errors.Is(err, model.ErrConflict) {
		return nil, goerr.Wrap(ErrInvalidTransition, "finding changed while submitting",
			goerr.V(FindingIDKey, findingID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to submit corrective action plan", goerr.V(FindingIDKey, findingID))
	}

	logging.From(ctx).Info("corrective action plan submitted",
		"cap_id", created.ID, "finding_id", finding.ID)
	return created, nil
}

// ReviewCAP approves or rejects a submitted plan. Approval closes the
// finding; rejection needs a comment and reopens it.
func (uc *FindingUseCase) ReviewCAP(ctx context.Context, capID model.CAPID, approve bool, comment string) (*model.CorrectiveActionPlan, error) {
	p, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}
	if !approve && strings.TrimSpace(comment) == "" {
		return nil, newValidationError("comment", "is required when rejecting")
	}

	plan, err := uc.repo.CAP().Get(ctx, capID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get corrective action plan", goerr.V(CAPIDKey, capID))
	}
	if plan.Status != types.CAPStatusSubmitted {
		return nil, goerr.Wrap(ErrInvalidTransition, "corrective action plan is not awaiting review",
			goerr.V(CAPIDKey, capID), goerr.V(FromStatusKey, plan.Status))
	}

	findingStatus := types.FindingStatusClosed
	plan.Status = types.CAPStatusApproved
	if !approve {
		findingStatus = types.FindingStatusOpen
		plan.Status = types.CAPStatusRejected
	}
	plan.ReviewedBy = p.UserID
	plan.ReviewerComment = comment

	updated, err := uc.repo.CAP().Review(ctx, plan, findingStatus)
	if errors.Is(err, model.ErrConflict) {
		return nil, goerr.Wrap(ErrInvalidTransition, "corrective action plan changed while reviewing",
			goerr.V(CAPIDKey, capID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to review corrective action plan", goerr.V(CAPIDKey, capID))
	}

	logging.From(ctx).Info("corrective action plan reviewed",
		"cap_id", updated.ID, "status", updated.Status, "finding_status", findingStatus)
	return updated, nil
}

// GetFinding returns one finding. Coordinators only see their own unit's.
func (uc *FindingUseCase) GetFinding(ctx context.Context, id model.FindingID) (*model.AuditFinding, error) {
	finding, err := uc.getFinding(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireUnitRead(ctx, finding.UnitID); err != nil {
		return nil, err
	}
	return finding, nil
}

// ListFindings returns findings of one unit, or of every unit when unitID is
// empty. A coordinator's listing is narrowed to their own unit.
func (uc *FindingUseCase) ListFindings(ctx context.Context, unitID types.UnitID) ([]*model.AuditFinding, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role == auth.RoleUnit && unitID == "" {
		unitID = p.UnitID
	}
	if _, err := requireUnitRead(ctx, unitID); err != nil {
		return nil, err
	}

	findings, err := uc.repo.Finding().List(ctx, unitID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list findings", goerr.V(UnitIDKey, unitID))
	}
	return findings, nil
}

// ListCAPs returns every plan submitted for a finding, oldest first
func (uc *FindingUseCase) ListCAPs(ctx context.Context, findingID model.FindingID) ([]*model.CorrectiveActionPlan, error) {
	if _, err := uc.GetFinding(ctx, findingID); err != nil {
		return nil, err
	}
	plans, err := uc.repo.CAP().ListByFinding(ctx, findingID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list corrective action plans", goerr.V(FindingIDKey, findingID))
	}
	return plans, nil
}

func (uc *FindingUseCase) getFinding(ctx context.Context, id model.FindingID) (*model.AuditFinding, error) {
	finding, err := uc.repo.Finding().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V(FindingIDKey, id))
	}
	return finding, nil
}
