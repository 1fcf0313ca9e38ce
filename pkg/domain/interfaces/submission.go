package interfaces

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type SubmissionRepository interface {
	// Create creates a new submission with auto-generated ID
	Create(ctx context.Context, submission *model.Submission) (*model.Submission, error)

	// Get retrieves a submission by ID
	Get(ctx context.Context, id model.SubmissionID) (*model.Submission, error)

	// List retrieves all submissions
	List(ctx context.Context) ([]*model.Submission, error)

	// ListByYear retrieves submissions of a year
	ListByYear(ctx context.Context, year int) ([]*model.Submission, error)

	// ListByUnit retrieves submissions of a unit for a year
	ListByUnit(ctx context.Context, unitID types.UnitID, year int) ([]*model.Submission, error)

	// Update updates an existing submission
	Update(ctx context.Context, submission *model.Submission) (*model.Submission, error)

	// Delete deletes a submission by ID
	Delete(ctx context.Context, id model.SubmissionID) error
}
