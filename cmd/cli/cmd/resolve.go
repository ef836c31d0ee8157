// Package cmd - resolve command
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"size-convert/core/output"
	"size-convert/core/resolver"
	"size-convert/core/types"
)

var (
	resolveBrand    string
	resolveGarment  string
	resolveType     string
	resolveUnit     string
	resolveJSON     bool
	resolveFormat   string
	resolveNoRemote bool
	resolveSaveUser string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <value>",
	Short: "Resolve a measurement to US, UK and EU sizes",
	Long: `Resolve a body measurement to size labels in every region.

Examples:
  size-convert resolve --brand Zara --garment tops --type bust --unit cm 86
  size-convert resolve --brand Mango --type waist 28 --json
  size-convert resolve --brand Acme --type hips --offline 40`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveBrand, "brand", "b", "", "brand name")
	resolveCmd.Flags().StringVarP(&resolveGarment, "garment", "g", "tops", "garment type")
	resolveCmd.Flags().StringVarP(&resolveType, "type", "t", "bust", "measurement type (bust, waist, hips)")
	resolveCmd.Flags().StringVarP(&resolveUnit, "unit", "u", "inches", "unit (inches, cm)")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "cli", "output format (cli, json, markdown)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "shorthand for --format json")
	resolveCmd.Flags().BoolVar(&resolveNoRemote, "offline", false, "skip the database and use the catalog or estimate")
	resolveCmd.Flags().StringVar(&resolveSaveUser, "save", "", "save the result to this user's history")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := resolveFormat
	if resolveJSON {
		format = string(output.FormatJSON)
	}
	formatter, err := output.Get(format)
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid measurement %q: %w", args[0], err)
	}
	m, err := types.ParseMeasurementType(resolveType)
	if err != nil {
		return err
	}
	unit, err := types.ParseUnit(resolveUnit)
	if err != nil {
		return err
	}
	q := types.SizeQuery{
		Brand:           resolveBrand,
		GarmentType:     resolveGarment,
		MeasurementType: m,
		Value:           value,
		Unit:            unit,
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []resolver.CallOption
	if resolveNoRemote {
		opts = append(opts, resolver.WithoutRemote())
	}
	result, err := a.Resolver.Resolve(ctx, q, opts...)
	if err != nil {
		return err
	}

	if resolveSaveUser != "" {
		if a.Store == nil {
			return fmt.Errorf("cannot save history: database unavailable")
		}
		if _, err := a.Store.SaveHistory(ctx, resolveSaveUser, q, result); err != nil {
			return err
		}
	}

	return formatter.Render(cmd.OutOrStdout(), &output.Report{Query: q, Result: result})
}
