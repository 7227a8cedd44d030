package cli

import (
	"context"
	"endify/config/setup"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rt)
		},
	}
}

func runServe(rt *runtime) error {
	logger := rt.logger
	cfg := rt.cfg

	application, err := setup.InitApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		return err
	}

	app := setup.NewFiberApp(logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application, cfg.APIToken)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env, "timezone", cfg.Location.String())

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down server gracefully")
	case err := <-listenErr:
		logger.Error("server failed", "error", err)
		setup.Shutdown(application, logger)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Shutdown(application, logger)
	logger.Info("server stopped")
	return nil
}
