package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/pinpoint/internal/config"
	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pinpoint",
	Short: "Hospital location review and reconciliation",
	Long: "Serves the reviewer UI that confirms facility coordinates, and runs the batch jobs " +
		"that geocode facilities, assign municipalities and load directory data.",
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.MustLoad()
		logger = setupLogger(cfg.Env)
	},
}

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepository connects to the database configured in the environment.
// The caller must close the returned pool.
func openRepository(ctx context.Context) (*repository.Repository, *pgxpool.Pool, error) {
	dtb, err := repository.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	return repository.NewRepository(dtb, logger), dtb, nil
}

// newRegistry creates a separate registry with Go and process collectors.
func newRegistry() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return reg, metrics.NewMetrics(reg)
}

func printReport(cmd *cobra.Command, title string, report models.Report) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d updated, %d skipped, %d errored (%d total)\n",
		title, report.Updated, report.Skipped, report.Errored, report.Total())
}
