package interfaces

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type CampusRepository interface {
	// Put creates or replaces a campus
	Put(ctx context.Context, campus *model.Campus) (*model.Campus, error)

	// Get retrieves a campus by ID
	Get(ctx context.Context, id types.CampusID) (*model.Campus, error)

	// List retrieves all campuses
	List(ctx context.Context) ([]*model.Campus, error)

	// Delete deletes a campus by ID
	Delete(ctx context.Context, id types.CampusID) error
}

type UnitRepository interface {
	// Put creates or replaces a unit
	Put(ctx context.Context, unit *model.Unit) (*model.Unit, error)

	// Get retrieves a unit by ID
	Get(ctx context.Context, id types.UnitID) (*model.Unit, error)

	// List retrieves all units
	List(ctx context.Context) ([]*model.Unit, error)

	// Delete deletes a unit by ID
	Delete(ctx context.Context, id types.UnitID) error
}

type CycleRepository interface {
	// Put creates or replaces a cycle. The ID is derived from year and cycle.
	Put(ctx context.Context, cycle *model.Cycle) (*model.Cycle, error)

	// Get retrieves a cycle by ID
	Get(ctx context.Context, id string) (*model.Cycle, error)

	// List retrieves all cycles
	List(ctx context.Context) ([]*model.Cycle, error)

	// ListByYear retrieves cycles of a year
	ListByYear(ctx context.Context, year int) ([]*model.Cycle, error)

	// Delete deletes a cycle by ID
	Delete(ctx context.Context, id string) error
}

// MasterDataImporter is implemented by repositories that can write master
// data in bulk. Callers fall back to per-entity Put when it is absent.
type MasterDataImporter interface {
	ImportMasterData(ctx context.Context, campuses []*model.Campus, units []*model.Unit, cycles []*model.Cycle) error
}
