package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// client implements Service interface
type client struct {
	llmClient    gollem.LLMClient
	portalPrompt string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithPortalPrompt replaces the built-in description of the portal that
// grounds chatbot answers
func WithPortalPrompt(prompt string) Option {
	return func(c *client) {
		if prompt != "" {
			c.portalPrompt = prompt
		}
	}
}

// New creates a new assistant service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:    llmClient,
		portalPrompt: defaultPortalPrompt,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Answer replies to a help question about the portal
func (c *client) Answer(ctx context.Context, query string) (string, error) {
	input, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal chat request")
	}

	var out chatResponse
	if err := c.generate(ctx, c.chatSystemPrompt(), chatResponseSchema(), string(input), &out); err != nil {
		return "", err
	}

	answer := strings.TrimSpace(out.Response)
	if answer == "" {
		return "", goerr.New("empty response from LLM")
	}
	return answer, nil
}

// JudgeLink asks the model whether the link and title look like the declared report type
func (c *client) JudgeLink(ctx context.Context, input LinkInput) (*LinkVerdict, error) {
	req, err := json.Marshal(linkRequest{
		URL:        input.URL,
		Title:      input.Title,
		ReportType: string(input.ReportType),
		Label:      input.ReportType.Label(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal link request")
	}

	var verdict LinkVerdict
	if err := c.generate(ctx, linkSystemPrompt(), linkResponseSchema(), string(req), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (c *client) generate(ctx context.Context, systemPrompt string, schema *gollem.Parameter, input string, out any) error {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(input))
	if err != nil {
		return goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return goerr.New("no content returned from LLM")
	}

	text := strings.Join(resp.Texts, "")
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", text))
	}
	return nil
}

const defaultPortalPrompt = `The portal is the quality management system of a university.
Every organizational unit submits six reports in each of the two yearly cycles (First Cycle and Final Cycle):
Operational Plan, Quality Objectives Monitoring, Risk and Opportunity Registry,
Risk and Opportunity Action Plan, Risk and Opportunity Monitoring and SWOT Analysis.
Reports are uploaded to a file host and submitted as links. The quality assurance office approves or rejects them;
a rejected report can be resubmitted with a new link.
When the registry declares a low risk rating the Action Plan is not required for that cycle.
Internal audits raise findings, and units answer each finding with a corrective action plan.`

func (c *client) chatSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are the help assistant of a quality management portal.\n\n")
	sb.WriteString("## Portal\n\n")
	sb.WriteString(c.portalPrompt)
	sb.WriteString("\n\n## Instructions\n\n")
	sb.WriteString("1. The input is a JSON object with a single field `query` written by a portal user.\n")
	sb.WriteString("2. Answer briefly and concretely, in the language of the query.\n")
	sb.WriteString("3. If the question is unrelated to the portal, say that you can only help with the portal.\n")
	sb.WriteString("4. Never invent deadlines, names or statuses you were not given.\n")
	return sb.String()
}

func linkSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You check document links submitted to a quality management portal.\n\n")
	sb.WriteString("## Instructions\n\n")
	sb.WriteString("1. The input is a JSON object with the link `url`, the document `title`, and the declared `report_type` with its label.\n")
	sb.WriteString("2. Decide whether the link and title plausibly point at a document of the declared report type.\n")
	sb.WriteString("3. You cannot open the link. Judge only from the URL and title.\n")
	sb.WriteString("4. Set `valid` to false when the title clearly names a different report type or the URL is not a document.\n")
	sb.WriteString("5. Give a one sentence `reason` the submitter can act on.\n")
	return sb.String()
}

func chatResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "HelpResponse",
		Description: "Answer to a portal help question",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"response": {
				Type:        gollem.TypeString,
				Description: "The answer shown to the user",
				Required:    true,
			},
		},
	}
}

func linkResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "LinkVerdict",
		Description: "Whether a submitted link plausibly holds the declared report type",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"valid": {
				Type:        gollem.TypeBoolean,
				Description: "True when the link plausibly holds the declared report type",
				Required:    true,
			},
			"reason": {
				Type:        gollem.TypeString,
				Description: "Short explanation for the submitter",
				Required:    true,
			},
		},
	}
}
