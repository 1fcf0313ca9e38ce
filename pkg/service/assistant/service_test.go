package assistant_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
)

type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

func (s *mockSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockClient struct {
	session  *mockSession
	sessions int
	err      error
}

func (c *mockClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.sessions++
	if c.err != nil {
		return nil, c.err
	}
	return c.session, nil
}

func (c *mockClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func respond(text string, captured *string) *mockSession {
	return &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			if captured != nil && len(input) > 0 {
				if txt, ok := input[0].(gollem.Text); ok {
					*captured = string(txt)
				}
			}
			return &gollem.Response{Texts: []string{text}}, nil
		},
	}
}

var _ gollem.Session = (*mockSession)(nil)
var _ gollem.LLMClient = (*mockClient)(nil)

func TestResponseSchemas(t *testing.T) {
	cases := map[string]struct {
		schema *gollem.Parameter
		fields []string
	}{
		"chat": {schema: assistant.ChatResponseSchema(), fields: []string{"response"}},
		"link": {schema: assistant.LinkResponseSchema(), fields: []string{"valid", "reason"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gt.NoError(t, tc.schema.Validate())
			gt.Value(t, len(tc.schema.Properties)).Equal(len(tc.fields))
			for _, field := range tc.fields {
				prop, ok := tc.schema.Properties[field]
				gt.True(t, ok)
				gt.True(t, prop.Required)
				gt.Error(t, prop.ValidateValue(field, nil))
			}
		})
	}
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := assistant.New(nil)
	gt.Error(t, err)
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("sends structured query and parses response", func(t *testing.T) {
		var sent string
		llm := &mockClient{session: respond(`{"response":"  Upload the file and paste the link.  "}`, &sent)}
		svc, err := assistant.New(llm)
		gt.NoError(t, err).Required()

		answer, err := svc.Answer(ctx, "How do I submit a SWOT?")
		gt.NoError(t, err).Required()
		gt.Value(t, answer).Equal("Upload the file and paste the link.")
		gt.String(t, sent).Contains(`"query":"How do I submit a SWOT?"`)
		gt.Value(t, llm.sessions).Equal(1)
	})

	t.Run("empty response is an error", func(t *testing.T) {
		svc, err := assistant.New(&mockClient{session: respond(`{"response":""}`, nil)})
		gt.NoError(t, err).Required()
		_, err = svc.Answer(ctx, "hello")
		gt.Error(t, err)
	})

	t.Run("broken JSON is an error", func(t *testing.T) {
		svc, err := assistant.New(&mockClient{session: respond(`not json`, nil)})
		gt.NoError(t, err).Required()
		_, err = svc.Answer(ctx, "hello")
		gt.Error(t, err)
	})

	t.Run("session error is returned", func(t *testing.T) {
		svc, err := assistant.New(&mockClient{err: errors.New("quota exceeded")})
		gt.NoError(t, err).Required()
		_, err = svc.Answer(ctx, "hello")
		gt.Error(t, err)
	})

	t.Run("context deadline is passed to the model", func(t *testing.T) {
		session := &mockSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		svc, err := assistant.New(&mockClient{session: session})
		gt.NoError(t, err).Required()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = svc.Answer(cctx, "hello")
		gt.Error(t, err).Is(context.Canceled)
	})
}

func TestJudgeLink(t *testing.T) {
	var sent string
	llm := &mockClient{session: respond(`{"valid":false,"reason":"The title names an operational plan."}`, &sent)}
	svc, err := assistant.New(llm)
	gt.NoError(t, err).Required()

	verdict, err := svc.JudgeLink(context.Background(), assistant.LinkInput{
		URL:        "https://drive.google.com/file/d/xyz",
		Title:      "Operational Plan 2025",
		ReportType: types.ReportTypeSWOT,
	})
	gt.NoError(t, err).Required()
	gt.Bool(t, verdict.Valid).False()
	gt.String(t, verdict.Reason).Contains("operational plan")
	gt.Bool(t, strings.Contains(sent, `"report_type_label":"SWOT Analysis"`)).True()
}

func TestAnswer_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()
	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := assistant.New(llmClient)
	gt.NoError(t, err).Required()

	answer, err := svc.Answer(ctx, "Which reports do I need to submit each cycle?")
	gt.NoError(t, err).Required()
	gt.String(t, answer).NotEqual("")

	verdict, err := svc.JudgeLink(ctx, assistant.LinkInput{
		URL:        "https://drive.google.com/file/d/abc/view",
		Title:      "SWOT Analysis - Registrar 2025",
		ReportType: types.ReportTypeSWOT,
	})
	gt.NoError(t, err).Required()
	gt.Bool(t, verdict.Valid).True()
}
