package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type chatLogDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Query     string    `firestore:"query"`
	Response  string    `firestore:"response"`
	Fallback  bool      `firestore:"fallback"`
	CreatedAt time.Time `firestore:"created_at"`
}

type chatLogRepository struct {
	base
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	created := *log
	created.ID = model.NewChatLogID()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc := &chatLogDocument{
		ID:        string(created.ID),
		UserID:    created.UserID,
		Query:     created.Query,
		Response:  created.Response,
		Fallback:  created.Fallback,
		CreatedAt: created.CreatedAt,
	}
	if _, err := r.col(ChatLogsCollection).Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create chat log", goerr.V("id", doc.ID))
	}
	return &created, nil
}

func (r *chatLogRepository) List(ctx context.Context, limit int) ([]*model.ChatLog, error) {
	q := r.col(ChatLogsCollection).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var logs []*model.ChatLog
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat logs")
		}

		var doc chatLogDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat log", goerr.V("id", snap.Ref.ID))
		}
		logs = append(logs, &model.ChatLog{
			ID:        model.ChatLogID(doc.ID),
			UserID:    doc.UserID,
			Query:     doc.Query,
			Response:  doc.Response,
			Fallback:  doc.Fallback,
			CreatedAt: doc.CreatedAt,
		})
	}
	return logs, nil
}
