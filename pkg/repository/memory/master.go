package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type campusRepository struct {
	mu       sync.RWMutex
	campuses map[types.CampusID]*model.Campus
}

func newCampusRepository() *campusRepository {
	return &campusRepository{
		campuses: make(map[types.CampusID]*model.Campus),
	}
}

func copyCampus(c *model.Campus) *model.Campus {
	n := *c
	return &n
}

func (r *campusRepository) Put(ctx context.Context, campus *model.Campus) (*model.Campus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyCampus(campus)
	if existing, ok := r.campuses[campus.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.campuses[stored.ID] = stored

	return copyCampus(stored), nil
}

func (r *campusRepository) Get(ctx context.Context, id types.CampusID) (*model.Campus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	campus, ok := r.campuses[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "campus not found", goerr.V("id", id))
	}
	return copyCampus(campus), nil
}

func (r *campusRepository) List(ctx context.Context) ([]*model.Campus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	campuses := make([]*model.Campus, 0, len(r.campuses))
	for _, c := range r.campuses {
		campuses = append(campuses, copyCampus(c))
	}
	sort.Slice(campuses, func(i, j int) bool { return campuses[i].ID < campuses[j].ID })
	return campuses, nil
}

func (r *campusRepository) Delete(ctx context.Context, id types.CampusID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campuses[id]; !ok {
		return goerr.Wrap(ErrNotFound, "campus not found", goerr.V("id", id))
	}
	delete(r.campuses, id)
	return nil
}

type unitRepository struct {
	mu    sync.RWMutex
	units map[types.UnitID]*model.Unit
}

func newUnitRepository() *unitRepository {
	return &unitRepository{
		units: make(map[types.UnitID]*model.Unit),
	}
}

func (r *unitRepository) Put(ctx context.Context, unit *model.Unit) (*model.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := unit.Clone()
	if existing, ok := r.units[unit.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.units[stored.ID] = stored

	return stored.Clone(), nil
}

func (r *unitRepository) Get(ctx context.Context, id types.UnitID) (*model.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unit, ok := r.units[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unit not found", goerr.V("id", id))
	}
	return unit.Clone(), nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	units := make([]*model.Unit, 0, len(r.units))
	for _, u := range r.units {
		units = append(units, u.Clone())
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

func (r *unitRepository) Delete(ctx context.Context, id types.UnitID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.units[id]; !ok {
		return goerr.Wrap(ErrNotFound, "unit not found", goerr.V("id", id))
	}
	delete(r.units, id)
	return nil
}

type cycleRepository struct {
	mu     sync.RWMutex
	cycles map[string]*model.Cycle
}

func newCycleRepository() *cycleRepository {
	return &cycleRepository{
		cycles: make(map[string]*model.Cycle),
	}
}

func copyCycle(c *model.Cycle) *model.Cycle {
	n := *c
	return &n
}

func (r *cycleRepository) Put(ctx context.Context, cycle *model.Cycle) (*model.Cycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyCycle(cycle)
	stored.ID = model.CycleID(cycle.Year, cycle.Cycle)
	if existing, ok := r.cycles[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.cycles[stored.ID] = stored

	return copyCycle(stored), nil
}

func (r *cycleRepository) Get(ctx context.Context, id string) (*model.Cycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cycle, ok := r.cycles[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "cycle not found", goerr.V("id", id))
	}
	return copyCycle(cycle), nil
}

func (r *cycleRepository) List(ctx context.Context) ([]*model.Cycle, error) {
	return r.list(func(*model.Cycle) bool { return true }), nil
}

func (r *cycleRepository) ListByYear(ctx context.Context, year int) ([]*model.Cycle, error) {
	return r.list(func(c *model.Cycle) bool { return c.Year == year }), nil
}

func (r *cycleRepository) list(match func(*model.Cycle) bool) []*model.Cycle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cycles := make([]*model.Cycle, 0, len(r.cycles))
	for _, c := range r.cycles {
		if match(c) {
			cycles = append(cycles, copyCycle(c))
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].ID < cycles[j].ID })
	return cycles
}

func (r *cycleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cycles[id]; !ok {
		return goerr.Wrap(ErrNotFound, "cycle not found", goerr.V("id", id))
	}
	delete(r.cycles, id)
	return nil
}
