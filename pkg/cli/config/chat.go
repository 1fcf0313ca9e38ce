package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Chat holds CLI flags for the help chatbot and link validation
type Chat struct {
	timeout  time.Duration
	fallback string
	hosts    []string
}

func (x *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "chat-timeout",
			Usage:       "Time limit for one chatbot answer",
			Category:    "AI",
			Value:       usecase.DefaultChatTimeout,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("EOMS_CHAT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "chat-fallback",
			Usage:       "Message returned when the chatbot cannot answer",
			Category:    "AI",
			Destination: &x.fallback,
			Sources:     cli.EnvVars("EOMS_CHAT_FALLBACK"),
		},
		&cli.StringSliceFlag{
			Name:        "link-host",
			Usage:       "Allowed host for evidence links (repeatable, subdomains included). Empty allows any host",
			Category:    "AI",
			Destination: &x.hosts,
			Sources:     cli.EnvVars("EOMS_LINK_HOSTS"),
		},
	}
}

func (x Chat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("timeout", x.timeout),
		slog.Bool("custom_fallback", x.fallback != ""),
		slog.Any("link_hosts", x.hosts),
	)
}

// Options returns the usecase options for the configured values
func (x *Chat) Options() []usecase.Option {
	var opts []usecase.Option
	if x.timeout > 0 {
		opts = append(opts, usecase.WithChatTimeout(x.timeout))
	}
	if x.fallback != "" {
		opts = append(opts, usecase.WithChatFallback(x.fallback))
	}
	if len(x.hosts) > 0 {
		opts = append(opts, usecase.WithLinkHosts(x.hosts))
	}
	return opts
}
