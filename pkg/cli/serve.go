package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/cli/config"
	httpctrl "github.com/secmon-lab/eoms/pkg/controller/http"
	"github.com/secmon-lab/eoms/pkg/service/worker"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/async"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var sweepInterval time.Duration
	var repoCfg config.Repository
	var authCfg config.Auth
	var geminiCfg config.Gemini
	var slackCfg config.Slack
	var chatCfg config.Chat

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("EOMS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of the non-compliance sweep. 0 disables the worker",
			Value:       time.Hour,
			Sources:     cli.EnvVars("EOMS_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
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

			authUC, err := authCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthMode() {
				logging.Default().Warn("Running in no-auth mode (development only)", "auth", authCfg)
			}

			ucOpts := []usecase.Option{usecase.WithAuth(authUC)}
			ucOpts = append(ucOpts, chatCfg.Options()...)

			assistantSvc, err := geminiCfg.ConfigureAssistant(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure assistant")
			}
			if assistantSvc != nil {
				ucOpts = append(ucOpts, usecase.WithAssistant(assistantSvc))
				logging.Default().LogAttrs(ctx, slog.LevelInfo, "Help chatbot enabled", geminiCfg.LogAttrs()...)
			} else {
				logging.Default().Info("Gemini not configured, chatbot answers with the fallback message")
			}

			slackOpt, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			if slackOpt != nil {
				ucOpts = append(ucOpts, slackOpt)
				logging.Default().Info("Slack notification enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			var sweepWorker *worker.ComplianceSweepWorker
			if sweepInterval > 0 {
				sweepWorker = worker.NewComplianceSweepWorker(uc.Dashboard, sweepInterval)
				if err := sweepWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start compliance sweep worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithAuth(authUC)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "repository", repoCfg)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if sweepWorker != nil {
					sweepWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// pending notifications
				async.Wait()

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
