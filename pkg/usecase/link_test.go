package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/repository/memory"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func TestLinkUseCase_Validate(t *testing.T) {
	hosts := []string{"drive.google.com", " SharePoint.com "}

	var judged *assistant.LinkInput
	svc := &mockAssistant{judgeFunc: func(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
		judged = &input
		if input.Title == "Cafeteria menu" {
			return &assistant.LinkVerdict{Valid: false, Reason: "title does not match a SWOT analysis"}, nil
		}
		return &assistant.LinkVerdict{Valid: true, Reason: "title names a SWOT analysis"}, nil
	}}
	uc := usecase.New(memory.New(), usecase.WithAssistant(svc), usecase.WithLinkHosts(hosts))
	ctx := unitCtx(unitCS)

	tests := []struct {
		name      string
		url       string
		title     string
		valid     bool
		aiChecked bool
	}{
		{"plain http", "http://drive.google.com/file/d/1", "SWOT 2025", false, false},
		{"relative", "/file/d/1", "SWOT 2025", false, false},
		{"host not allowed", "https://example.com/swot.pdf", "SWOT 2025", false, false},
		{"lookalike host", "https://evildrive.google.com.attacker.io/x", "SWOT 2025", false, false},
		{"allowed host", "https://drive.google.com/file/d/1", "SWOT 2025", true, true},
		{"allowed subdomain", "https://cmu.sharepoint.com/sites/qa/swot.docx", "SWOT 2025", true, true},
		{"ai rejects", "https://drive.google.com/file/d/2", "Cafeteria menu", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := uc.Link.Validate(ctx, tt.url, types.ReportTypeSWOT, tt.title)
			gt.NoError(t, err).Required()
			gt.Value(t, check.Valid).Equal(tt.valid)
			gt.Value(t, check.AIChecked).Equal(tt.aiChecked)
			gt.String(t, check.Reason).NotEqual("")
		})
	}

	gt.Value(t, judged).NotNil()
	gt.Value(t, judged.ReportType).Equal(types.ReportTypeSWOT)

	t.Run("unknown report type", func(t *testing.T) {
		_, err := uc.Link.Validate(ctx, "https://drive.google.com/x", "budget", "")
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}

func TestLinkUseCase_DegradesWhenAIFails(t *testing.T) {
	svc := &mockAssistant{judgeFunc: func(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
		return nil, errors.New("model unavailable")
	}}
	uc := usecase.New(memory.New(), usecase.WithAssistant(svc), usecase.WithLinkHosts([]string{"drive.google.com"}))

	check, err := uc.Link.Validate(unitCtx(unitCS), "https://drive.google.com/file/d/1", types.ReportTypeOperationalPlan, "OP")
	gt.NoError(t, err).Required()
	gt.Bool(t, check.Valid).True()
	gt.Bool(t, check.AIChecked).False()
	gt.String(t, check.Reason).Contains("unavailable")
}

func TestLinkUseCase_EmptyAllowListAllowsAnyHost(t *testing.T) {
	uc := usecase.New(memory.New())
	check, err := uc.Link.Validate(viewerCtx(), "https://files.example.org/op.pdf", types.ReportTypeOperationalPlan, "")
	gt.NoError(t, err).Required()
	gt.Bool(t, check.Valid).True()
	gt.Bool(t, check.AIChecked).False()
}

func TestLinkUseCase_JudgementTimeout(t *testing.T) {
	var hadDeadline bool
	svc := &mockAssistant{judgeFunc: func(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
		_, hadDeadline = ctx.Deadline()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
			return &assistant.LinkVerdict{Valid: true, Reason: "late"}, nil
		}
	}}
	uc := usecase.New(memory.New(),
		usecase.WithAssistant(svc),
		usecase.WithChatTimeout(100*time.Millisecond),
	)

	start := time.Now()
	check, err := uc.Link.Validate(unitCtx(unitCS), "https://drive.google.com/file/d/1", types.ReportTypeSWOT, "SWOT 2025")
	elapsed := time.Since(start)

	gt.NoError(t, err).Required()
	gt.Bool(t, hadDeadline).True()
	gt.Bool(t, elapsed < time.Second).True()
	gt.Bool(t, check.Valid).True()
	gt.Bool(t, check.AIChecked).False()
	gt.String(t, check.Reason).Contains("unavailable")
}

func TestLinkUseCase_DiscardsVerdictAfterDeadline(t *testing.T) {
	svc := &mockAssistant{judgeFunc: func(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
		<-ctx.Done()
		return &assistant.LinkVerdict{Valid: false, Reason: "too late"}, nil
	}}
	uc := usecase.New(memory.New(),
		usecase.WithAssistant(svc),
		usecase.WithChatTimeout(50*time.Millisecond),
	)

	check, err := uc.Link.Validate(unitCtx(unitCS), "https://drive.google.com/file/d/1", types.ReportTypeSWOT, "SWOT 2025")
	gt.NoError(t, err).Required()
	gt.Bool(t, check.Valid).True()
	gt.Bool(t, check.AIChecked).False()
}
