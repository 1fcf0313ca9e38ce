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

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create, ListByYear, Update and Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		year := 5000 + int(time.Now().UnixNano()%1000)

		created, err := repo.Risk().Create(ctx, &model.Risk{
			UnitID:      "registrar",
			CampusID:    "main",
			Year:        year,
			Type:        types.RiskTypeRisk,
			Status:      types.RiskStatusOpen,
			Likelihood:  4,
			Consequence: 5,
			Rating:      types.RiskRatingHigh,
			Description: "Records backlog",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.RiskID(""))

		_, err = repo.Risk().Create(ctx, &model.Risk{UnitID: "registrar", Year: year + 1, Type: types.RiskTypeOpportunity})
		gt.NoError(t, err).Required()

		risks, err := repo.Risk().ListByYear(ctx, year)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1)
		gt.Value(t, risks[0].Likelihood).Equal(4)
		gt.Value(t, risks[0].Rating).Equal(types.RiskRatingHigh)

		created.Status = types.RiskStatusClosed
		updated, err := repo.Risk().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.RiskStatusClosed)

		gt.NoError(t, repo.Risk().Delete(ctx, created.ID)).Required()
		_, err = repo.Risk().Get(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Update unknown risk", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Risk().Update(context.Background(), &model.Risk{ID: "missing"})
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestMemoryRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newFirestoreRepository)
}
