package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// DeletionKind names the entity collection an admin deletion targets
type DeletionKind string

const (
	DeletionKindSubmission DeletionKind = "submission"
	DeletionKindUnit       DeletionKind = "unit"
	DeletionKindCampus     DeletionKind = "campus"
	DeletionKindCycle      DeletionKind = "cycle"
	DeletionKindRisk       DeletionKind = "risk"
	DeletionKindFinding    DeletionKind = "finding"
)

const confirmationTTL = 5 * time.Minute

func (k DeletionKind) IsValid() bool {
	switch k {
	case DeletionKindSubmission, DeletionKindUnit, DeletionKindCampus,
		DeletionKindCycle, DeletionKindRisk, DeletionKindFinding:
		return true
	default:
		return false
	}
}

// DeletionRequest is handed back to the admin, who must type Phrase to confirm
type DeletionRequest struct {
	Kind      DeletionKind `json:"kind"`
	ID        string       `json:"id"`
	Phrase    string       `json:"phrase"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type pendingDeletion struct {
	phrase    string
	expiresAt time.Time
}

// AdminUseCase guards deletions with a one-time confirmation phrase. Pending
// phrases live in process memory.
type AdminUseCase struct {
	repo interfaces.Repository
	now  func() time.Time

	mu      sync.Mutex
	pending map[string]pendingDeletion
}

func NewAdminUseCase(repo interfaces.Repository, now func() time.Time) *AdminUseCase {
	if now == nil {
		now = time.Now
	}
	return &AdminUseCase{
		repo:    repo,
		now:     now,
		pending: make(map[string]pendingDeletion),
	}
}

func deletionKey(kind DeletionKind, id string) string {
	return string(kind) + "/" + id
}

// RequestDeletion checks the target exists and issues a confirmation phrase
// valid for five minutes. A new request replaces the previous phrase.
func (uc *AdminUseCase) RequestDeletion(ctx context.Context, kind DeletionKind, id string) (*DeletionRequest, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, newValidationError("kind", "is not a deletable entity kind")
	}
	if id == "" {
		return nil, newValidationError("id", "is required")
	}
	if err := uc.exists(ctx, kind, id); err != nil {
		return nil, err
	}

	now := uc.now()
	req := &DeletionRequest{
		Kind:      kind,
		ID:        id,
		Phrase:    "delete-" + string(kind) + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0],
		ExpiresAt: now.Add(confirmationTTL),
	}

	uc.mu.Lock()
	uc.gc(now)
	uc.pending[deletionKey(kind, id)] = pendingDeletion{phrase: req.Phrase, expiresAt: req.ExpiresAt}
	uc.mu.Unlock()

	return req, nil
}

// ConfirmDeletion deletes the target when phrase matches the pending request.
// The phrase is consumed on success.
func (uc *AdminUseCase) ConfirmDeletion(ctx context.Context, kind DeletionKind, id, phrase string) error {
	p, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	key := deletionKey(kind, id)
	now := uc.now()

	uc.mu.Lock()
	pending, ok := uc.pending[key]
	switch {
	case !ok:
		uc.mu.Unlock()
		return goerr.Wrap(ErrConfirmationMismatch, "no pending deletion", goerr.V(KindKey, kind), goerr.V("id", id))
	case now.After(pending.expiresAt):
		delete(uc.pending, key)
		uc.mu.Unlock()
		return goerr.Wrap(ErrConfirmationExpired, "confirmation phrase expired", goerr.V(KindKey, kind), goerr.V("id", id))
	case strings.TrimSpace(phrase) != pending.phrase:
		uc.mu.Unlock()
		return goerr.Wrap(ErrConfirmationMismatch, "confirmation phrase does not match", goerr.V(KindKey, kind), goerr.V("id", id))
	}
	delete(uc.pending, key)
	uc.mu.Unlock()

	if err := uc.delete(ctx, kind, id); err != nil {
		return err
	}

	logging.From(ctx).Info("entity deleted by admin", "kind", kind, "id", id, "user_id", p.UserID)
	return nil
}

func (uc *AdminUseCase) gc(now time.Time) {
	for k, v := range uc.pending {
		if now.After(v.expiresAt) {
			delete(uc.pending, k)
		}
	}
}

func (uc *AdminUseCase) exists(ctx context.Context, kind DeletionKind, id string) error {
	var err error
	switch kind {
	case DeletionKindSubmission:
		_, err = uc.repo.Submission().Get(ctx, model.SubmissionID(id))
	case DeletionKindUnit:
		_, err = uc.repo.Unit().Get(ctx, types.UnitID(id))
	case DeletionKindCampus:
		_, err = uc.repo.Campus().Get(ctx, types.CampusID(id))
	case DeletionKindCycle:
		_, err = uc.repo.Cycle().Get(ctx, id)
	case DeletionKindRisk:
		_, err = uc.repo.Risk().Get(ctx, model.RiskID(id))
	case DeletionKindFinding:
		_, err = uc.repo.Finding().Get(ctx, model.FindingID(id))
	}
	if err != nil {
		return goerr.Wrap(err, "deletion target lookup failed", goerr.V(KindKey, kind), goerr.V("id", id))
	}
	return nil
}

func (uc *AdminUseCase) delete(ctx context.Context, kind DeletionKind, id string) error {
	var err error
	switch kind {
	case DeletionKindSubmission:
		err = uc.repo.Submission().Delete(ctx, model.SubmissionID(id))
	case DeletionKindUnit:
		err = uc.repo.Unit().Delete(ctx, types.UnitID(id))
	case DeletionKindCampus:
		err = uc.repo.Campus().Delete(ctx, types.CampusID(id))
	case DeletionKindCycle:
		err = uc.repo.Cycle().Delete(ctx, id)
	case DeletionKindRisk:
		err = uc.repo.Risk().Delete(ctx, model.RiskID(id))
	case DeletionKindFinding:
		err = uc.repo.Finding().Delete(ctx, model.FindingID(id))
	default:
		return newValidationError("kind", "is not a deletable entity kind")
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete entity", goerr.V(KindKey, kind), goerr.V("id", id))
	}
	return nil
}
