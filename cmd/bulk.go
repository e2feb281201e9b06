package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/pinpoint/internal/directory"
	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/UnknownOlympus/pinpoint/internal/tabular"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var applyAssignmentsCmd = &cobra.Command{
	Use:   "apply-assignments <file.xlsx>",
	Short: "Apply reviewed facility to municipality assignments from a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		table, err := tabular.ReadSheet(args[0])
		if err != nil {
			return err
		}
		assignments, err := service.ParseAssignments(table)
		if err != nil {
			return err
		}

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		report, err := service.ApplyAssignments(ctx, logger, repo, assignments)
		printReport(cmd, "apply-assignments", report)
		return err
	},
}

var loadMunicipalitiesCmd = &cobra.Command{
	Use:   "load-municipalities <file.xlsx>",
	Short: "Load municipality names and boundaries from the georeference workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		table, err := tabular.ReadSheet(args[0])
		if err != nil {
			return err
		}
		regions, err := service.ParseMunicipalities(ctx, logger, table)
		if err != nil {
			return err
		}

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		loaded, err := repo.InsertMunicipalities(ctx, regions)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "load-municipalities: %d loaded, %d rows dropped\n", loaded, table.Len()-len(regions))
		return nil
	},
}

var scrapeListingsCmd = &cobra.Command{
	Use:   "scrape-listings <page.html>...",
	Short: "Extract unit names and coordinates from saved directory pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		output, _ := cmd.Flags().GetString("output")

		var listings []directory.Listing
		for _, path := range args {
			found, err := scrapePage(path)
			if err != nil {
				return err
			}
			logger.Info("Directory page parsed", "page", path, "units", len(found))
			listings = append(listings, found...)
		}

		listings, err := directory.Resume(listings, from)
		if err != nil {
			return fmt.Errorf("failed to resume from %q: %w", from, err)
		}

		out, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "scrape-listings: create %s", output)
		}
		defer out.Close()

		if err = tabular.WriteCSV(out, directory.ToTable(listings)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scrape-listings: %d units written to %s\n", len(listings), output)
		return nil
	},
}

var uploadListingsCmd = &cobra.Command{
	Use:   "upload-listings <listings.csv>",
	Short: "Update facility coordinates from a scraped listings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		facilityType, _ := cmd.Flags().GetString("type")

		in, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "upload-listings: open %s", args[0])
		}
		defer in.Close()

		table, err := tabular.ReadCSV(in)
		if err != nil {
			return err
		}
		listings, err := directory.FromTable(table)
		if err != nil {
			return err
		}

		repo, dtb, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer dtb.Close()

		report, err := service.UploadListings(ctx, logger, repo, listings, facilityType)
		printReport(cmd, "upload-listings", report)
		return err
	},
}

func scrapePage(path string) ([]directory.Listing, error) {
	page, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape-listings: open %s", path)
	}
	defer page.Close()

	return directory.ParseListings(page)
}

func init() {
	scrapeListingsCmd.Flags().String("from", "", "skip units before the one with this name")
	scrapeListingsCmd.Flags().String("output", "unidades.csv", "CSV file to write")

	uploadListingsCmd.Flags().String("type", "CLÍNICA", "only update facilities of this type, empty for any")

	rootCmd.AddCommand(applyAssignmentsCmd, loadMunicipalitiesCmd, scrapeListingsCmd, uploadListingsCmd)
}
