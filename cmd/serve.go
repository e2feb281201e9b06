package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/api"
	"github.com/spf13/cobra"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review API and reviewer UI",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Create a context that will be canceled when an interrupt signal is received.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		reg, appMetrics := newRegistry()

		server := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Port),
			Handler: api.NewRouter(api.RouterConfig{
				Log:         logger,
				Store:       repo,
				Metrics:     appMetrics,
				Gatherer:    reg,
				StaticDir:   cfg.StaticDir,
				CORSOrigins: cfg.CORSOrigins,
			}),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.InfoContext(ctx, "Starting review API", "port", cfg.Port)
			if errServe := server.ListenAndServe(); !errors.Is(errServe, http.ErrServerClosed) {
				serveErr <- errServe
			}
			close(serveErr)
		}()

		select {
		case err = <-serveErr:
			return fmt.Errorf("review API failed: %w", err)
		case <-ctx.Done():
		}

		logger.InfoContext(ctx, "Shutdown signal received. Stopping review API...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down review API: %w", err)
		}

		logger.InfoContext(ctx, "Review API stopped gracefully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
