package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/metrics"
)

const maxChatQueryLength = 2000

// ChatAnswer is what the help widget shows
type ChatAnswer struct {
	Response string `json:"response"`
	Fallback bool   `json:"fallback"`
}

// ChatUseCase answers portal help questions. The model is called once per
// question with a client-side timeout; any failure yields the fallback text.
type ChatUseCase struct {
	repo      interfaces.Repository
	assistant assistant.Service
	timeout   time.Duration
	fallback  string
}

func NewChatUseCase(repo interfaces.Repository, svc assistant.Service, timeout time.Duration, fallback string) *ChatUseCase {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	if fallback == "" {
		fallback = DefaultChatFallback
	}
	return &ChatUseCase{
		repo:      repo,
		assistant: svc,
		timeout:   timeout,
		fallback:  fallback,
	}
}

// Ask answers query. Only input validation and authentication fail; model
// errors and timeouts are reported through ChatAnswer.Fallback.
func (uc *ChatUseCase) Ask(ctx context.Context, query string) (*ChatAnswer, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		metrics.RecordChat("invalid")
		return nil, newValidationError("query", "is required")
	}
	if utf8.RuneCountInString(query) > maxChatQueryLength {
		metrics.RecordChat("invalid")
		return nil, newValidationError("query", "is too long")
	}

	logger := logging.From(ctx)
	answer := &ChatAnswer{}

	response, err := uc.ask(ctx, query)
	if err != nil {
		logger.Warn("chat assistant failed, using fallback",
			"error", err.Error(), "user_id", p.UserID, "fallback", true)
		answer.Response = uc.fallback
		answer.Fallback = true
		metrics.RecordChat("fallback")
	} else {
		answer.Response = response
		metrics.RecordChat("answered")
	}

	log := &model.ChatLog{
		UserID:   p.UserID,
		Query:    query,
		Response: answer.Response,
		Fallback: answer.Fallback,
	}
	if _, err := uc.repo.ChatLog().Create(ctx, log); err != nil {
		// Losing the log must not lose the answer
		logger.Error("failed to store chat log", "error", err.Error(), "user_id", p.UserID)
	}

	logger.Info("chat answered", "user_id", p.UserID, "fallback", answer.Fallback)
	return answer, nil
}

func (uc *ChatUseCase) ask(ctx context.Context, query string) (string, error) {
	if uc.assistant == nil {
		return "", goerr.New("assistant is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	response, err := uc.assistant.Answer(ctx, query)
	if err != nil {
		return "", goerr.Wrap(err, "assistant answer failed", goerr.V("timeout", uc.timeout.String()))
	}
	return response, nil
}

// History returns the latest chatbot exchanges for the QA office
func (uc *ChatUseCase) History(ctx context.Context, limit int) ([]*model.ChatLog, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	logs, err := uc.repo.ChatLog().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat logs")
	}
	return logs, nil
}
