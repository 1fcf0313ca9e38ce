package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// RiskInput is one row of a unit's risk and opportunity registry form
type RiskInput struct {
	UnitID      types.UnitID
	CampusID    types.CampusID
	Year        int
	Type        types.RiskType
	Likelihood  int
	Consequence int
	Description string
	Treatment   string
}

type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{repo: repo}
}

// Register records a new risk as Open with its rating derived from likelihood x consequence
func (uc *RiskUseCase) Register(ctx context.Context, in RiskInput) (*model.Risk, error) {
	if _, err := requireUnitAccess(ctx, in.UnitID); err != nil {
		return nil, err
	}

	fe := fieldErrors{}
	if in.Year < 2000 || in.Year > 9999 {
		fe.add("year", "must be between 2000 and 9999")
	}
	if !in.Type.IsValid() {
		fe.add("type", "must be Risk or Opportunity")
	}
	if in.Likelihood < 1 || in.Likelihood > 5 {
		fe.add("likelihood", "must be between 1 and 5")
	}
	if in.Consequence < 1 || in.Consequence > 5 {
		fe.add("consequence", "must be between 1 and 5")
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
	case !unit.HasCampus(in.CampusID):
		fe.add("campus_id", "unit does not belong to this campus")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	rating, _ := types.RatingFromMagnitude(in.Likelihood * in.Consequence)
	risk := &model.Risk{
		UnitID:      in.UnitID,
		CampusID:    in.CampusID,
		Year:        in.Year,
		Type:        in.Type,
		Status:      types.RiskStatusOpen,
		Likelihood:  in.Likelihood,
		Consequence: in.Consequence,
		Rating:      rating,
		Description: strings.TrimSpace(in.Description),
		Treatment:   strings.TrimSpace(in.Treatment),
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}
	logging.From(ctx).Info("risk registered",
		"risk_id", created.ID, "unit_id", created.UnitID, "rating", created.Rating)
	return created, nil
}

// UpdateStatus moves a risk along Open -> In Progress -> Closed
func (uc *RiskUseCase) UpdateStatus(ctx context.Context, id model.RiskID, next types.RiskStatus) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}
	if _, err := requireUnitAccess(ctx, risk.UnitID); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, newValidationError("status", "must be Open, In Progress or Closed")
	}
	if !risk.Status.CanTransitionTo(next) {
		return nil, goerr.Wrap(ErrInvalidTransition, "risk status cannot change",
			goerr.V(RiskIDKey, id), goerr.V(FromStatusKey, risk.Status), goerr.V(ToStatusKey, next))
	}

	risk.Status = next
	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(RiskIDKey, id))
	}
	return updated, nil
}

func (uc *RiskUseCase) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}
	return risk, nil
}

// List returns the risks of a year, narrowed to one unit when unitID is set
func (uc *RiskUseCase) List(ctx context.Context, year int, unitID types.UnitID) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().ListByYear(ctx, year)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V("year", year))
	}
	if unitID == "" {
		return risks, nil
	}

	out := make([]*model.Risk, 0, len(risks))
	for _, r := range risks {
		if r.UnitID == unitID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Matrix plots the risks of f on the likelihood x consequence grid
func (uc *RiskUseCase) Matrix(ctx context.Context, f compliance.Filter) (*compliance.RiskMatrix, error) {
	risks, err := uc.List(ctx, f.Year, f.UnitID)
	if err != nil {
		return nil, err
	}
	m := compliance.BuildRiskMatrix(risks, f)
	return &m, nil
}

// Funnel counts the risks of f per treatment status
func (uc *RiskUseCase) Funnel(ctx context.Context, f compliance.Filter) ([]compliance.FunnelSeries, error) {
	risks, err := uc.List(ctx, f.Year, f.UnitID)
	if err != nil {
		return nil, err
	}
	return compliance.BuildRiskFunnel(risks, f), nil
}
