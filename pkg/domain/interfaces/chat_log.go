package interfaces

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model"
)

type ChatLogRepository interface {
	// Create stores one chatbot exchange
	Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error)

	// List returns the most recent exchanges, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.ChatLog, error)
}
