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

type findingRepository struct {
	mu       sync.RWMutex
	findings map[model.FindingID]*model.AuditFinding
}

func newFindingRepository() *findingRepository {
	return &findingRepository{
		findings: make(map[model.FindingID]*model.AuditFinding),
	}
}

func (r *findingRepository) Create(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := finding.Clone()
	created.ID = model.NewFindingID()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.findings[created.ID] = created
	return created.Clone(), nil
}

func (r *findingRepository) Get(ctx context.Context, id model.FindingID) (*model.AuditFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	finding, ok := r.findings[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
	}
	return finding.Clone(), nil
}

func (r *findingRepository) List(ctx context.Context, unitID types.UnitID) ([]*model.AuditFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	findings := make([]*model.AuditFinding, 0, len(r.findings))
	for _, f := range r.findings {
		if unitID == "" || f.UnitID == unitID {
			findings = append(findings, f.Clone())
		}
	}
	// IDs are UUIDv7 so this is creation order
	sort.Slice(findings, func(i, j int) bool { return findings[i].ID < findings[j].ID })
	return findings, nil
}

func (r *findingRepository) Update(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.findings[finding.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", finding.ID))
	}

	updated := finding.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.findings[updated.ID] = updated

	return updated.Clone(), nil
}

func (r *findingRepository) Delete(ctx context.Context, id model.FindingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findings[id]; !ok {
		return goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
	}
	delete(r.findings, id)
	return nil
}

// capRepository locks its own mutex before the finding repository's one
type capRepository struct {
	mu      sync.RWMutex
	plans   map[model.CAPID]*model.CorrectiveActionPlan
	finding *findingRepository
}

func newCAPRepository(finding *findingRepository) *capRepository {
	return &capRepository{
		plans:   make(map[model.CAPID]*model.CorrectiveActionPlan),
		finding: finding,
	}
}

func (r *capRepository) Create(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := plan.Clone()
	created.ID = model.NewCAPID()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.plans[created.ID] = created
	return created.Clone(), nil
}

func (r *capRepository) Get(ctx context.Context, id model.CAPID) (*model.CorrectiveActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "corrective action plan not found", goerr.V("id", id))
	}
	return plan.Clone(), nil
}

func (r *capRepository) ListByFinding(ctx context.Context, findingID model.FindingID) ([]*model.CorrectiveActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*model.CorrectiveActionPlan
	for _, p := range r.plans {
		if p.FindingID == findingID {
			plans = append(plans, p.Clone())
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (r *capRepository) Update(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "corrective action plan not found", goerr.V("id", plan.ID))
	}

	updated := plan.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.plans[updated.ID] = updated

	return updated.Clone(), nil
}

func (r *capRepository) Submit(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finding.mu.Lock()
	defer r.finding.mu.Unlock()

	finding, ok := r.finding.findings[plan.FindingID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", plan.FindingID))
	}
	if finding.Status != types.FindingStatusOpen {
		return nil, goerr.Wrap(model.ErrConflict, "finding is not open",
			goerr.V("id", plan.FindingID), goerr.V("status", finding.Status))
	}

	now := time.Now().UTC()
	created := plan.Clone()
	created.ID = model.NewCAPID()
	created.CreatedAt = now
	created.UpdatedAt = now

	next := finding.Clone()
	next.Status = types.FindingStatusCAPSubmitted
	next.UpdatedAt = now

	r.plans[created.ID] = created
	r.finding.findings[next.ID] = next
	return created.Clone(), nil
}

func (r *capRepository) Review(ctx context.Context, plan *model.CorrectiveActionPlan, findingStatus types.FindingStatus) (*model.CorrectiveActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finding.mu.Lock()
	defer r.finding.mu.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "corrective action plan not found", goerr.V("id", plan.ID))
	}
	if existing.Status != types.CAPStatusSubmitted {
		return nil, goerr.Wrap(model.ErrConflict, "corrective action plan is not awaiting review",
			goerr.V("id", plan.ID), goerr.V("status", existing.Status))
	}
	finding, ok := r.finding.findings[existing.FindingID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", existing.FindingID))
	}

	now := time.Now().UTC()
	updated := plan.Clone()
	updated.FindingID = existing.FindingID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now

	next := finding.Clone()
	next.Status = findingStatus
	next.UpdatedAt = now

	r.plans[updated.ID] = updated
	r.finding.findings[next.ID] = next
	return updated.Clone(), nil
}
