package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func runMasterDataRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Campus put, get, list and delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := types.CampusID("main-" + uniqueSuffix())

		created, err := repo.Campus().Put(ctx, &model.Campus{ID: id, Name: "Main Campus"})
		gt.NoError(t, err).Required()
		gt.Value(t, created.CreatedAt.IsZero()).Equal(false)

		got, err := repo.Campus().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Main Campus")

		// Put again keeps CreatedAt
		updated, err := repo.Campus().Put(ctx, &model.Campus{ID: id, Name: "Main"})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Main")
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()

		list, err := repo.Campus().List(ctx)
		gt.NoError(t, err).Required()
		found := false
		for _, c := range list {
			if c.ID == id {
				found = true
			}
		}
		gt.Bool(t, found).True()

		gt.NoError(t, repo.Campus().Delete(ctx, id)).Required()
		_, err = repo.Campus().Get(ctx, id)
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, repo.Campus().Delete(ctx, id)).Is(model.ErrNotFound)
	})

	t.Run("Unit keeps campus membership", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := types.UnitID("registrar-" + uniqueSuffix())

		_, err := repo.Unit().Put(ctx, &model.Unit{
			ID:        id,
			Name:      "Registrar",
			CampusIDs: []types.CampusID{"main", "north"},
		})
		gt.NoError(t, err).Required()

		got, err := repo.Unit().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Array(t, got.CampusIDs).Length(2)
		gt.Bool(t, got.HasCampus("north")).True()

		// returned value is a copy
		got.CampusIDs[0] = "changed"
		again, err := repo.Unit().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, again.CampusIDs[0]).Equal(types.CampusID("main"))

		_, err = repo.Unit().Get(ctx, "missing-"+types.UnitID(uniqueSuffix()))
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Cycle ID is derived from year and cycle", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		year := 3000 + int(time.Now().UnixNano()%1000)

		created, err := repo.Cycle().Put(ctx, &model.Cycle{
			Year:    year,
			Cycle:   types.CycleFirst,
			Name:    "First Cycle",
			StartAt: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
			EndAt:   time.Date(year, 6, 30, 0, 0, 0, 0, time.UTC),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(model.CycleID(year, types.CycleFirst))

		_, err = repo.Cycle().Put(ctx, &model.Cycle{Year: year, Cycle: types.CycleFinal, Name: "Final Cycle"})
		gt.NoError(t, err).Required()
		_, err = repo.Cycle().Put(ctx, &model.Cycle{Year: year + 1, Cycle: types.CycleFirst, Name: "Next"})
		gt.NoError(t, err).Required()

		cycles, err := repo.Cycle().ListByYear(ctx, year)
		gt.NoError(t, err).Required()
		gt.Array(t, cycles).Length(2)

		got, err := repo.Cycle().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.EndAt.Equal(created.EndAt)).True()

		gt.NoError(t, repo.Cycle().Delete(ctx, created.ID)).Required()
		_, err = repo.Cycle().Get(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestMemoryMasterDataRepository(t *testing.T) {
	runMasterDataRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreMasterDataRepository(t *testing.T) {
	runMasterDataRepositoryTest(t, newFirestoreRepository)
}
