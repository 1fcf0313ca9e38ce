package config

import (
	"log/slog"

	"github.com/secmon-lab/eoms/pkg/service/slack"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for compliance digest notifications
type Slack struct {
	botToken string
	channel  string
	apiURL   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("EOMS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives submission and compliance notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("EOMS_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Override the Slack API endpoint",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("EOMS_SLACK_API_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Configure returns the usecase option that enables notifications. Returns
// nil when Slack is not configured.
func (x *Slack) Configure() (usecase.Option, error) {
	if !x.IsConfigured() {
		if x.botToken != "" || x.channel != "" {
			slog.Warn("Slack notification needs both --slack-bot-token and --slack-channel, disabled")
		}
		return nil, nil
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}
	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, err
	}
	return usecase.WithSlack(svc, x.channel), nil
}
