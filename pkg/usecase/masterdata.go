package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// MasterData is the campus, unit and cycle set loaded by the seed command
type MasterData struct {
	Campuses []*model.Campus
	Units    []*model.Unit
	Cycles   []*model.Cycle
}

type MasterDataUseCase struct {
	repo interfaces.Repository
}

func NewMasterDataUseCase(repo interfaces.Repository) *MasterDataUseCase {
	return &MasterDataUseCase{repo: repo}
}

// PutCampus creates or replaces a campus
func (uc *MasterDataUseCase) PutCampus(ctx context.Context, campus *model.Campus) (*model.Campus, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := campus.Validate(); err != nil {
		return nil, err
	}

	saved, err := uc.repo.Campus().Put(ctx, campus)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put campus", goerr.V(CampusIDKey, campus.ID))
	}
	return saved, nil
}

func (uc *MasterDataUseCase) GetCampus(ctx context.Context, id types.CampusID) (*model.Campus, error) {
	campus, err := uc.repo.Campus().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get campus", goerr.V(CampusIDKey, id))
	}
	return campus, nil
}

func (uc *MasterDataUseCase) ListCampuses(ctx context.Context) ([]*model.Campus, error) {
	campuses, err := uc.repo.Campus().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list campuses")
	}
	return campuses, nil
}

// PutUnit creates or replaces a unit. Every campus it lists must exist.
func (uc *MasterDataUseCase) PutUnit(ctx context.Context, unit *model.Unit) (*model.Unit, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	for _, id := range unit.CampusIDs {
		if _, err := uc.repo.Campus().Get(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, newValidationError("campus_ids", "campus "+string(id)+" does not exist")
			}
			return nil, goerr.Wrap(err, "failed to get campus", goerr.V(CampusIDKey, id))
		}
	}

	saved, err := uc.repo.Unit().Put(ctx, unit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put unit", goerr.V(UnitIDKey, unit.ID))
	}
	return saved, nil
}

func (uc *MasterDataUseCase) GetUnit(ctx context.Context, id types.UnitID) (*model.Unit, error) {
	unit, err := uc.repo.Unit().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get unit", goerr.V(UnitIDKey, id))
	}
	return unit, nil
}

func (uc *MasterDataUseCase) ListUnits(ctx context.Context) ([]*model.Unit, error) {
	units, err := uc.repo.Unit().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list units")
	}
	return units, nil
}

// PutCycle creates or replaces the cycle of a (year, cycle) pair
func (uc *MasterDataUseCase) PutCycle(ctx context.Context, cycle *model.Cycle) (*model.Cycle, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := cycle.Validate(); err != nil {
		return nil, err
	}
	if cycle.Name == "" {
		cycle.Name = cycle.Cycle.Label()
	}

	saved, err := uc.repo.Cycle().Put(ctx, cycle)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put cycle", goerr.V("year", cycle.Year), goerr.V("cycle", cycle.Cycle))
	}
	return saved, nil
}

func (uc *MasterDataUseCase) GetCycle(ctx context.Context, id string) (*model.Cycle, error) {
	cycle, err := uc.repo.Cycle().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get cycle", goerr.V(CycleIDKey, id))
	}
	return cycle, nil
}

// ListCycles returns the cycles of a year, or every cycle when year is 0
func (uc *MasterDataUseCase) ListCycles(ctx context.Context, year int) ([]*model.Cycle, error) {
	var (
		cycles []*model.Cycle
		err    error
	)
	if year > 0 {
		cycles, err = uc.repo.Cycle().ListByYear(ctx, year)
	} else {
		cycles, err = uc.repo.Cycle().List(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cycles", goerr.V("year", year))
	}
	return cycles, nil
}

// Import validates master data as a whole and writes it. Units may reference
// campuses from the same import or already stored ones. Used by the seed
// command, which runs without a principal.
func (uc *MasterDataUseCase) Import(ctx context.Context, data *MasterData) error {
	campusIDs := make(map[types.CampusID]struct{})
	for _, c := range data.Campuses {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := campusIDs[c.ID]; dup {
			return goerr.Wrap(ErrValidation, "duplicate campus ID", goerr.V(CampusIDKey, c.ID))
		}
		campusIDs[c.ID] = struct{}{}
	}

	unitIDs := make(map[types.UnitID]struct{})
	for _, u := range data.Units {
		if err := u.Validate(); err != nil {
			return err
		}
		if _, dup := unitIDs[u.ID]; dup {
			return goerr.Wrap(ErrValidation, "duplicate unit ID", goerr.V(UnitIDKey, u.ID))
		}
		unitIDs[u.ID] = struct{}{}

		for _, id := range u.CampusIDs {
			if _, ok := campusIDs[id]; ok {
				continue
			}
			if _, err := uc.repo.Campus().Get(ctx, id); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return goerr.Wrap(ErrValidation, "unit references unknown campus",
						goerr.V(UnitIDKey, u.ID), goerr.V(CampusIDKey, id))
				}
				return goerr.Wrap(err, "failed to get campus", goerr.V(CampusIDKey, id))
			}
		}
	}

	cycleIDs := make(map[string]struct{})
	for _, c := range data.Cycles {
		if err := c.Validate(); err != nil {
			return err
		}
		id := model.CycleID(c.Year, c.Cycle)
		if _, dup := cycleIDs[id]; dup {
			return goerr.Wrap(ErrValidation, "duplicate cycle", goerr.V(CycleIDKey, id))
		}
		cycleIDs[id] = struct{}{}
		c.ID = id
		if c.Name == "" {
			c.Name = c.Cycle.Label()
		}
	}

	if importer, ok := uc.repo.(interfaces.MasterDataImporter); ok {
		if err := importer.ImportMasterData(ctx, data.Campuses, data.Units, data.Cycles); err != nil {
			return goerr.Wrap(err, "failed to import master data")
		}
	} else {
		if err := uc.putAll(ctx, data); err != nil {
			return err
		}
	}

	logging.From(ctx).Info("master data imported",
		"campuses", len(data.Campuses),
		"units", len(data.Units),
		"cycles", len(data.Cycles))
	return nil
}

func (uc *MasterDataUseCase) putAll(ctx context.Context, data *MasterData) error {
	for _, c := range data.Campuses {
		if _, err := uc.repo.Campus().Put(ctx, c); err != nil {
			return goerr.Wrap(err, "failed to put campus", goerr.V(CampusIDKey, c.ID))
		}
	}
	for _, u := range data.Units {
		if _, err := uc.repo.Unit().Put(ctx, u); err != nil {
			return goerr.Wrap(err, "failed to put unit", goerr.V(UnitIDKey, u.ID))
		}
	}
	for _, c := range data.Cycles {
		if _, err := uc.repo.Cycle().Put(ctx, c); err != nil {
			return goerr.Wrap(err, "failed to put cycle", goerr.V(CycleIDKey, c.ID))
		}
	}
	return nil
}
