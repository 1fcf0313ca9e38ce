package interfaces

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model"
)

type RiskRepository interface {
	// Create creates a new risk with auto-generated ID
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id model.RiskID) (*model.Risk, error)

	// ListByYear retrieves the registry entries of a year
	ListByYear(ctx context.Context, year int) ([]*model.Risk, error)

	// Update updates an existing risk
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Delete deletes a risk by ID
	Delete(ctx context.Context, id model.RiskID) error
}
