package interfaces

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type FindingRepository interface {
	Create(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error)
	Get(ctx context.Context, id model.FindingID) (*model.AuditFinding, error)
	// List retrieves findings, narrowed to one unit when unitID is not empty
	List(ctx context.Context, unitID types.UnitID) ([]*model.AuditFinding, error)
	Update(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error)
	Delete(ctx context.Context, id model.FindingID) error
}

type CAPRepository interface {
	Create(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error)
	Get(ctx context.Context, id model.CAPID) (*model.CorrectiveActionPlan, error)
	ListByFinding(ctx context.Context, findingID model.FindingID) ([]*model.CorrectiveActionPlan, error)
	Update(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error)

	// Submit stores a new plan and moves its finding from open to
	// cap-submitted in one write. ErrConflict when the finding is not open.
	Submit(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error)
	// Review stores a reviewed plan and sets its finding to findingStatus in
	// one write. ErrConflict when the stored plan is not awaiting review.
	Review(ctx context.Context, plan *model.CorrectiveActionPlan, findingStatus types.FindingStatus) (*model.CorrectiveActionPlan, error)
}
