package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Gemini LLM client
type Gemini struct {
	projectID    string
	location     string
	portalPrompt string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "AI",
			Sources:     cli.EnvVars("EOMS_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("EOMS_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "portal-prompt",
			Usage:       "Description of the portal given to the help chatbot (replaces the built-in one)",
			Category:    "AI",
			Sources:     cli.EnvVars("EOMS_PORTAL_PROMPT"),
			Destination: &g.portalPrompt,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.Bool("custom_prompt", g.portalPrompt != ""),
	}
}

// Configure creates a new Gemini LLM client from the configured flags.
// Returns nil if projectID is not configured (chatbot and AI link checks will be disabled).
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}

// ConfigureAssistant wraps the Gemini client in the portal assistant.
// Returns nil when Gemini is not configured.
func (g *Gemini) ConfigureAssistant(ctx context.Context) (assistant.Service, error) {
	client, err := g.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	svc, err := assistant.New(client, assistant.WithPortalPrompt(g.portalPrompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assistant")
	}
	return svc, nil
}
