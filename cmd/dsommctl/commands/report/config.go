package report

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	cfgMaxLevel   int
	cfgDimensions []string
	cfgTags       []string
	cfgTeams      []string
	cfgColumns    []string
	cfgDateFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the stored report configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the report configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the report configuration",
	Long: `Change the stored report configuration. Only the given flags change;
pass an empty value, e.g. --team "", to select everything again.

Available columns: ` + strings.Join(views.ReportColumns, ", ") + `

Examples:
  dsommctl report config set --max-level 3
  dsommctl report config set --team "Team A" --column samm2 --column risk
  dsommctl report config set --date-format 02.01.2006`,
	RunE: runConfigSet,
}

func init() {
	configSetCmd.Flags().IntVar(&cfgMaxLevel, "max-level", 0, "Highest level to include")
	configSetCmd.Flags().StringSliceVar(&cfgDimensions, "dimension", nil, "Sub-dimensions to include")
	configSetCmd.Flags().StringSliceVar(&cfgTags, "tag", nil, "Tags to include")
	configSetCmd.Flags().StringSliceVar(&cfgTeams, "team", nil, "Teams to include")
	configSetCmd.Flags().StringSliceVar(&cfgColumns, "column", nil, "Extra columns")
	configSetCmd.Flags().StringVar(&cfgDateFormat, "date-format", "", "Date layout, e.g. 2006-01-02")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	cfg, err := client.ReportConfig()
	if err != nil {
		return fmt.Errorf("failed to get report configuration: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, cfg, nil)
	}
	return printConfig(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	for _, c := range cfgColumns {
		if c != "" && !slices.Contains(views.ReportColumns, c) {
			return fmt.Errorf("unknown column %q (available: %s)", c, strings.Join(views.ReportColumns, ", "))
		}
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	cfg, err := client.ReportConfig()
	if err != nil {
		return fmt.Errorf("failed to get report configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-level") {
		cfg.MaxLevel = cfgMaxLevel
	}
	if flags.Changed("dimension") {
		cfg.Dimensions = nonEmpty(cfgDimensions)
	}
	if flags.Changed("tag") {
		cfg.Tags = nonEmpty(cfgTags)
	}
	if flags.Changed("team") {
		cfg.Teams = nonEmpty(cfgTeams)
	}
	if flags.Changed("column") {
		cfg.Columns = nonEmpty(cfgColumns)
	}
	if flags.Changed("date-format") {
		cfg.DateFormat = cfgDateFormat
	}

	updated, err := client.SetReportConfig(*cfg)
	if err != nil {
		return fmt.Errorf("failed to update report configuration: %w", err)
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, updated, "Report configuration saved")
}

func nonEmpty(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printConfig(cfg *views.ReportConfig) error {
	all := "(all)"
	return output.SimpleTable(os.Stdout, [][2]string{
		{"Max level", strconv.Itoa(cfg.MaxLevel)},
		{"Dimensions", cmdutil.EmptyOr(strings.Join(cfg.Dimensions, ", "), all)},
		{"Tags", cmdutil.EmptyOr(strings.Join(cfg.Tags, ", "), all)},
		{"Teams", cmdutil.EmptyOr(strings.Join(cfg.Teams, ", "), all)},
		{"Columns", cmdutil.EmptyOr(strings.Join(cfg.Columns, ", "), "-")},
		{"Date format", cmdutil.EmptyOr(cfg.DateFormat, "-")},
	})
}
