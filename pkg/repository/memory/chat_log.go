package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/model"
)

type chatLogRepository struct {
	mu   sync.RWMutex
	logs []*model.ChatLog
}

func newChatLogRepository() *chatLogRepository {
	return &chatLogRepository{}
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *log
	created.ID = model.NewChatLogID()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	r.logs = append(r.logs, &created)

	out := created
	return &out, nil
}

func (r *chatLogRepository) List(ctx context.Context, limit int) ([]*model.ChatLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]*model.ChatLog, 0, len(r.logs))
	for _, l := range r.logs {
		c := *l
		logs = append(logs, &c)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
