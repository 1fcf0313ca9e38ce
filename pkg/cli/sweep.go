package cli

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/cli/config"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var notify bool
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "notify",
			Usage:       "Post the non-compliance digest to Slack",
			Destination: &notify,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "sweep",
		Usage: "List units that missed required reports in ended cycles",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var opts []usecase.Option
			if notify {
				slackOpt, err := slackCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure slack")
				}
				if slackOpt == nil {
					return goerr.New("--notify requires --slack-bot-token and --slack-channel")
				}
				opts = append(opts, slackOpt)
			}

			uc := usecase.New(repo, opts...)
			now := time.Now()

			entries, err := uc.Dashboard.NonCompliance(ctx, now, compliance.Filter{})
			if err != nil {
				return err
			}
			printNonCompliance(color.Output, entries)

			if notify {
				notified, err := uc.Dashboard.Sweep(ctx, now)
				if err != nil {
					return err
				}
				logging.Default().Info("Sweep finished", "entries", len(entries), "notified", notified)
			}
			return nil
		},
	}
}
