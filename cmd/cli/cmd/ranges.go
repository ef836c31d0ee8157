// Package cmd - Measurement range management
// THIS IS THE ONLY WAY to load range data into the database
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"size-convert/core/ui"
	"size-convert/db/ingestion"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Measurement range data management",
}

var rangesImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import measurement ranges from CSV",
	Long: `Import measurement ranges from a CSV file (gzip when the name ends in .gz).

Required columns: brand, garment, region, size, measurement, min, max, unit.
Centimeter rows are stored in inches. All rows are written in one transaction.

Phases:
  1. READ      - Parse CSV by header name
  2. NORMALIZE - Parse enums and convert units
  3. VALIDATE  - Range invariants and overlap checks
  4. COMMIT    - Single atomic DB transaction`,
	Args: cobra.ExactArgs(1),
	RunE: runRangesImport,
}

var rangesExportCmd = &cobra.Command{
	Use:   "export <file|->",
	Short: "Export every stored range as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRangesExport,
}

var (
	rangesReplace bool
	rangesDryRun  bool
	rangesStrict  bool
)

func init() {
	rootCmd.AddCommand(rangesCmd)
	rangesCmd.AddCommand(rangesImportCmd)
	rangesCmd.AddCommand(rangesExportCmd)

	rangesImportCmd.Flags().BoolVar(&rangesReplace, "replace", false, "replace existing ranges of every brand and garment in the file")
	rangesImportCmd.Flags().BoolVar(&rangesDryRun, "dry-run", false, "validate only, no database writes")
	rangesImportCmd.Flags().BoolVar(&rangesStrict, "strict", false, "treat overlapping ranges as errors")
}

func runRangesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	in, err := ingestion.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Store == nil {
		return errors.New("database unavailable")
	}

	report, err := ingestion.NewPipeline(a.Store).Import(ctx, in, ingestion.ImportOptions{
		Replace: rangesReplace,
		DryRun:  rangesDryRun,
		Strict:  rangesStrict,
	})
	if err != nil {
		return err
	}

	uw := ui.NewWriter(cmd.OutOrStdout(), false)
	for _, w := range report.Warnings {
		uw.Warning("%s", w)
	}
	if report.DryRun {
		uw.Success("Validated %d rows in %d groups (dry run)", report.Rows, report.Groups)
	} else {
		uw.Success("Imported %d ranges in %d groups", report.Written, report.Groups)
	}
	uw.Dim("content hash %s", report.Hash)
	return nil
}

func runRangesExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Store == nil {
		return errors.New("database unavailable")
	}

	out, err := ingestion.CreateFile(args[0])
	if err != nil {
		return err
	}
	n, err := ingestion.Export(ctx, a.Store, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if args[0] != "-" {
		ui.NewWriter(cmd.OutOrStdout(), false).Success("Exported %d ranges to %s", n, args[0])
	}
	return nil
}
