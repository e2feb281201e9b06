package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/pinpoint/internal/geocoding"
	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/UnknownOlympus/pinpoint/internal/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Re-geocode unreviewed facilities from name, state and municipality",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		state, _ := cmd.Flags().GetString("state")
		output, _ := cmd.Flags().GetString("output")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		// Create geocoding provider using factory pattern based on configuration.
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:     geocoding.ProviderType(cfg.Geocoder.ProviderType),
			APIKey:   cfg.Geocoder.APIKey,
			Region:   cfg.Geocoder.Region,
			Interval: cfg.Geocoder.Interval,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create geocoding provider: %w", err)
		}
		logger.InfoContext(ctx, "Geocoding provider initialized",
			"type", cfg.Geocoder.ProviderType, "interval", cfg.Geocoder.Interval)

		facilities, err := repo.FetchFacilitiesForGeocoding(ctx, state)
		if err != nil {
			return err
		}

		reg, appMetrics := newRegistry()
		sheet := service.NewSheetSink(output, service.GeocodeLayout)
		sinks := reconcileSinks(service.NewCoordinatesSink(repo), sheet, dryRun)

		resolver := service.NewGeocodeResolver(
			logger, provider, cfg.Geocoder.ProviderType, appMetrics, cfg.Geocoder.AddrPrefix,
		)
		report, err := service.NewReconciler(logger, resolver, appMetrics, sinks...).Run(ctx, facilities)
		printReport(cmd, "geocode", report)
		if errMetrics := writeMetrics(cmd, reg); errMetrics != nil {
			logger.ErrorContext(ctx, "Failed to write metrics file", "error", errMetrics)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Export written to %s\n", output)
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign every located facility to the municipality containing it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		output, _ := cmd.Flags().GetString("output")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		rawRegions, err := repo.FetchRegions(ctx)
		if err != nil {
			return err
		}
		reg, appMetrics := newRegistry()
		regions := spatial.CompileAll(ctx, logger, rawRegions)
		logger.InfoContext(ctx, "Municipality boundaries compiled", "usable", len(regions), "stored", len(rawRegions))

		facilities, err := repo.FetchLocatedFacilities(ctx)
		if err != nil {
			return err
		}

		sheet := service.NewSheetSink(output, service.AssignmentLayout)
		sinks := reconcileSinks(service.NewMunicipalitySink(repo), sheet, dryRun)

		resolver := service.NewSpatialResolver(spatial.NewEngine(logger, regions, appMetrics))
		report, err := service.NewReconciler(logger, resolver, appMetrics, sinks...).Run(ctx, facilities)
		printReport(cmd, "assign", report)
		if errMetrics := writeMetrics(cmd, reg); errMetrics != nil {
			logger.ErrorContext(ctx, "Failed to write metrics file", "error", errMetrics)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Export written to %s\n", output)
		return nil
	},
}

// writeMetrics dumps the registry in the text exposition format when --metrics-file is set,
// for collection by a node exporter textfile collector.
func writeMetrics(cmd *cobra.Command, reg *prometheus.Registry) error {
	path, _ := cmd.Flags().GetString("metrics-file")
	if path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, reg)
}

func init() {
	geocodeCmd.Flags().String("state", "", "only geocode facilities of this state")
	geocodeCmd.Flags().String("output", "hospitales_geocodificados.xlsx", "XLSX export of the geocoded facilities")
	geocodeCmd.Flags().Bool("dry-run", false, "write the export without updating the database")

	assignCmd.Flags().String("output", "hospitales_con_municipio.xlsx", "XLSX export of the assignments")
	assignCmd.Flags().Bool("dry-run", false, "write the export without updating the database")

	for _, cmd := range []*cobra.Command{geocodeCmd, assignCmd} {
		cmd.Flags().String("metrics-file", "", "write run metrics to this file in Prometheus text format")
	}

	rootCmd.AddCommand(geocodeCmd, assignCmd)
}

// reconcileSinks orders the database sink before the export so a record that fails to
// persist is left out of the sheet. Dry runs only export.
func reconcileSinks(store service.Sink, sheet *service.SheetSink, dryRun bool) []service.Sink {
	if dryRun {
		return []service.Sink{sheet}
	}

	return []service.Sink{store, sheet}
}
