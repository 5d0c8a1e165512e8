package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-client/internal/app"
	"github.com/BuzzLyutic/todo-client/internal/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "todo-client",
		Short:        "Task list client backed by the DummyJSON todo API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list intents over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.New(cfg, logger, nil).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	cmd.Flags().StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "remote todo API base URL")
	cmd.Flags().IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "number of background workers")
	cmd.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "maximum queued intents")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "development logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
