package matrix

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	filterTags       []string
	filterDimensions []string
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Manage the stored matrix filters",
	Long: `Show or change the tag and dimension filters stored on the server.

Examples:
  dsommctl matrix filters get
  dsommctl matrix filters set --tag ci
  dsommctl matrix filters clear`,
}

var filtersGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored filters",
	RunE:  runFiltersGet,
}

var filtersSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a filter selection",
	Long: `Store the tag and dimension selection. Names that do not match a
tag or sub-dimension of the loaded data are ignored by the matrix.

Examples:
  dsommctl matrix filters set --tag ci --tag scanning
  dsommctl matrix filters set --dimension "Build"`,
	RunE: runFiltersSet,
}

var filtersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored filters",
	RunE:  runFiltersClear,
}

func init() {
	filtersSetCmd.Flags().StringSliceVar(&filterTags, "tag", nil, "Selected tag (repeatable)")
	filtersSetCmd.Flags().StringSliceVar(&filterDimensions, "dimension", nil, "Selected sub-dimension (repeatable)")

	filtersCmd.AddCommand(filtersGetCmd)
	filtersCmd.AddCommand(filtersSetCmd)
	filtersCmd.AddCommand(filtersClearCmd)
}

func runFiltersGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	sel, err := client.MatrixFilters()
	if err != nil {
		return fmt.Errorf("failed to get matrix filters: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, sel, nil)
	}
	return printSelection(sel)
}

func runFiltersSet(cmd *cobra.Command, args []string) error {
	if len(filterTags) == 0 && len(filterDimensions) == 0 {
		return fmt.Errorf("nothing to set. Use --tag or --dimension, or 'dsommctl matrix filters clear'")
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	sel, err := client.SetMatrixFilters(views.MatrixSelection{Tags: filterTags, Dimensions: filterDimensions})
	if err != nil {
		return fmt.Errorf("failed to set matrix filters: %w", err)
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, sel, "Matrix filters saved")
}

func runFiltersClear(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	if _, err := client.SetMatrixFilters(views.MatrixSelection{}); err != nil {
		return fmt.Errorf("failed to clear matrix filters: %w", err)
	}
	cmdutil.PrintSuccess("Matrix filters cleared")
	return nil
}

func printSelection(sel *views.MatrixSelection) error {
	return output.SimpleTable(os.Stdout, [][2]string{
		{"Tags", cmdutil.EmptyOr(strings.Join(sel.Tags, ", "), "(all)")},
		{"Dimensions", cmdutil.EmptyOr(strings.Join(sel.Dimensions, ", "), "(all)")},
	})
}
