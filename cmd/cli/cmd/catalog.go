// Package cmd - catalog commands
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"size-convert/core/catalog"
	"size-convert/core/types"
	"size-convert/core/ui"
	"size-convert/internal/app"
	"size-convert/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the static brand catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog brands and charted measurements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.LoadCatalog(config.Get())
		if err != nil {
			return err
		}
		return printCatalog(cmd, c)
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog override file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		stats := c.Stats()
		ui.NewWriter(cmd.OutOrStdout(), false).Success("%s: %d brands, %d ranges", args[0], stats.Brands, stats.Ranges)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}

func printCatalog(cmd *cobra.Command, c *catalog.Catalog) error {
	uw := ui.NewWriter(cmd.OutOrStdout(), false)
	table := uw.NewTable("BRAND", "MEASUREMENTS", "US SIZES")
	for _, name := range c.Brands() {
		b, _ := c.Brand(name)
		var charted []string
		var labels []string
		for _, m := range types.MeasurementTypes {
			chart, ok := b.Charts[m]
			if !ok {
				continue
			}
			charted = append(charted, string(m))
			if labels == nil {
				for _, r := range chart[types.RegionUS] {
					labels = append(labels, r.Label)
				}
			}
		}
		table.AddRow(name, strings.Join(charted, ","), strings.Join(labels, " "))
	}
	table.Render()

	stats := c.Stats()
	uw.Dim("%d brands, %d ranges", stats.Brands, stats.Ranges)
	return nil
}
