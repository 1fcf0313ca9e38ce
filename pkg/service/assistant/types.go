package assistant

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Service answers help questions and judges submission links with an LLM
type Service interface {
	// Answer replies to a portal help question
	Answer(ctx context.Context, query string) (string, error)

	// JudgeLink asks whether a document link plausibly holds the declared report type
	JudgeLink(ctx context.Context, input LinkInput) (*LinkVerdict, error)
}

// LinkInput is what the link judge sees. The document itself is never fetched.
type LinkInput struct {
	URL        string
	Title      string
	ReportType types.ReportType
}

// LinkVerdict is the judge's structured answer
type LinkVerdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// chatRequest is the structured input sent to the model
type chatRequest struct {
	Query string `json:"query"`
}

// chatResponse is the structured output from the model
type chatResponse struct {
	Response string `json:"response"`
}

type linkRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	ReportType string `json:"report_type"`
	Label      string `json:"report_type_label"`
}
