package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type submissionRepository struct {
	mu          sync.RWMutex
	submissions map[model.SubmissionID]*model.Submission
}

func newSubmissionRepository() *submissionRepository {
	return &submissionRepository{
		submissions: make(map[model.SubmissionID]*model.Submission),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := submission.Clone()
	created.ID = model.NewSubmissionID()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.submissions[created.ID] = created
	return created.Clone(), nil
}

func (r *submissionRepository) Get(ctx context.Context, id model.SubmissionID) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submission, ok := r.submissions[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}
	return submission.Clone(), nil
}

func (r *submissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	return r.list(func(*model.Submission) bool { return true }), nil
}

func (r *submissionRepository) ListByYear(ctx context.Context, year int) ([]*model.Submission, error) {
	return r.list(func(s *model.Submission) bool { return s.Year == year }), nil
}

func (r *submissionRepository) ListByUnit(ctx context.Context, unitID types.UnitID, year int) ([]*model.Submission, error) {
	return r.list(func(s *model.Submission) bool { return s.UnitID == unitID && s.Year == year }), nil
}

func (r *submissionRepository) list(match func(*model.Submission) bool) []*model.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submissions := make([]*model.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		if match(s) {
			submissions = append(submissions, s.Clone())
		}
	}
	return submissions
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.submissions[submission.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", submission.ID))
	}

	updated := submission.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.submissions[updated.ID] = updated

	return updated.Clone(), nil
}

func (r *submissionRepository) Delete(ctx context.Context, id model.SubmissionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.submissions[id]; !ok {
		return goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}
	delete(r.submissions, id)
	return nil
}
