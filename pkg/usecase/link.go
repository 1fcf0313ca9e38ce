package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// LinkCheck is the outcome of validating a submission link
type LinkCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
	// AIChecked is false when the AI judgement was skipped or failed and only
	// the structural checks decided
	AIChecked bool `json:"ai_checked"`
}

// LinkUseCase checks that a submission link points at an allowed file host
// and plausibly holds the declared report
type LinkUseCase struct {
	assistant assistant.Service
	hosts     []string
	timeout   time.Duration
}

// NewLinkUseCase bounds every AI judgement by timeout (DefaultChatTimeout when not positive)
func NewLinkUseCase(svc assistant.Service, hosts []string, timeout time.Duration) *LinkUseCase {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &LinkUseCase{
		assistant: svc,
		hosts:     normalized,
		timeout:   timeout,
	}
}

// Validate runs the structural checks and then asks the model. A structural
// failure is returned as an invalid LinkCheck, not as an error.
func (uc *LinkUseCase) Validate(ctx context.Context, rawURL string, reportType types.ReportType, title string) (*LinkCheck, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if !reportType.IsValid() {
		return nil, newValidationError("report_type", "is not a known report type")
	}

	if err := validateLink(rawURL); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return &LinkCheck{Valid: false, Reason: "link " + ve.Fields["link"]}, nil
		}
		return nil, err
	}

	u, _ := url.Parse(strings.TrimSpace(rawURL))
	if !uc.hostAllowed(u.Hostname()) {
		return &LinkCheck{Valid: false, Reason: "link host " + u.Hostname() + " is not an allowed file host"}, nil
	}

	if uc.assistant == nil {
		return &LinkCheck{Valid: true, Reason: "structural checks passed; AI check is not configured"}, nil
	}

	verdict, err := uc.judge(ctx, assistant.LinkInput{
		URL:        u.String(),
		Title:      strings.TrimSpace(title),
		ReportType: reportType,
	})
	if err != nil {
		logging.From(ctx).Warn("link judgement failed, using structural verdict",
			"error", err.Error(), "host", u.Hostname(), "timeout", uc.timeout.String())
		return &LinkCheck{Valid: true, Reason: "structural checks passed; AI check unavailable"}, nil
	}

	return &LinkCheck{
		Valid:     verdict.Valid,
		Reason:    verdict.Reason,
		AIChecked: true,
	}, nil
}

// judge asks the model under the client-side timeout. A verdict that arrives
// after the deadline is discarded.
func (uc *LinkUseCase) judge(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	verdict, err := uc.assistant.JudgeLink(ctx, input)
	if err != nil {
		return nil, goerr.Wrap(err, "link judgement failed")
	}
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "link judgement exceeded timeout")
	}
	return verdict, nil
}

// hostAllowed matches the host or any subdomain of an allowed host. An empty
// allow-list allows every host.
func (uc *LinkUseCase) hostAllowed(host string) bool {
	if len(uc.hosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, allowed := range uc.hosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

