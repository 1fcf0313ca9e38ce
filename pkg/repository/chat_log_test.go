package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
)

func runChatLogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Millisecond)

		for i, q := range []string{"first", "second", "third"} {
			_, err := repo.ChatLog().Create(ctx, &model.ChatLog{
				UserID:    "u1",
				Query:     q,
				Response:  "answer",
				Fallback:  i == 1,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			gt.NoError(t, err).Required()
		}

		logs, err := repo.ChatLog().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(2).Required()
		gt.Value(t, logs[0].Query).Equal("third")
		gt.Value(t, logs[1].Query).Equal("second")
		gt.Bool(t, logs[1].Fallback).True()
	})
}

func TestMemoryChatLogRepository(t *testing.T) {
	runChatLogRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreChatLogRepository(t *testing.T) {
	runChatLogRepositoryTest(t, newFirestoreRepository)
}
