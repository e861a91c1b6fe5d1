package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/cli/config"
	controller "github.com/m-mizutani/leakhound/pkg/controller/http"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/infra/iam"
	"github.com/m-mizutani/leakhound/pkg/infra/sns"
	"github.com/m-mizutani/leakhound/pkg/infra/slack"
	"github.com/m-mizutani/leakhound/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		webhookCfg config.Webhook
		awsCfg     config.AWS
		alertCfg   config.Alert
	)

	flags := append(serverCfg.Flags(), webhookCfg.Flags()...)
	flags = append(flags, awsCfg.Flags()...)
	flags = append(flags, alertCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting leakhound server",
				slog.String("addr", serverCfg.Addr),
			)

			// Process-wide clients, constructed once and passed down
			directory, err := iam.New(ctx, awsCfg.Region)
			if err != nil {
				return goerr.Wrap(err, "failed to create identity directory client")
			}

			publishers, err := buildPublishers(ctx, &awsCfg, &alertCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to create alert publishers")
			}

			remediationUC := usecase.NewRemediation(directory, publishers)

			server, err := controller.NewServer(
				ctx,
				remediationUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(webhookCfg.SharedSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// buildPublishers assembles the alert fan-out set. The SNS publisher is
// always present, even with an empty topic ARN, so a missing destination
// shows up as publish failures instead of silently dropped alerts.
func buildPublishers(ctx context.Context, awsCfg *config.AWS, alertCfg *config.Alert) ([]interfaces.AlertPublisher, error) {
	snsPublisher, err := sns.New(ctx, awsCfg.Region, alertCfg.TopicARN)
	if err != nil {
		return nil, err
	}
	publishers := []interfaces.AlertPublisher{snsPublisher}

	if alertCfg.SlackToken != "" && alertCfg.SlackChannel != "" {
		publishers = append(publishers, slack.New(alertCfg.SlackToken, alertCfg.SlackChannel))
	}

	routes, err := alertCfg.LoadRoutes()
	if err != nil {
		return nil, err
	}
	for _, route := range routes {
		switch route.Type {
		case "sns":
			p, err := sns.New(ctx, awsCfg.Region, route.TopicARN)
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, p)
		case "slack":
			if alertCfg.SlackToken == "" {
				return nil, goerr.New("slack route configured without slack-oauth-token")
			}
			publishers = append(publishers, slack.New(alertCfg.SlackToken, route.Channel))
		}
	}

	return publishers, nil
}
