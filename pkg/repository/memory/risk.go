package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks map[model.RiskID]*model.Risk
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks: make(map[model.RiskID]*model.Risk),
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := risk.Clone()
	created.ID = model.NewRiskID()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.risks[created.ID] = created
	return created.Clone(), nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, ok := r.risks[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	return risk.Clone(), nil
}

func (r *riskRepository) ListByYear(ctx context.Context, year int) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.risks))
	for _, risk := range r.risks {
		if risk.Year == year {
			risks = append(risks, risk.Clone())
		}
	}
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.risks[risk.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
	}

	updated := risk.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.risks[updated.ID] = updated

	return updated.Clone(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.risks[id]; !ok {
		return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	delete(r.risks, id)
	return nil
}
