package settings

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/apiclient"
)

var (
	prefsMaxLevel   int
	prefsDateFormat string
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"preferences"},
	Short:   "Show or change the display preferences",
	Long: `Show or change the preferences shared by all clients: the highest
maturity level to show and the layout of progress dates.

Date layouts use Go reference time notation, e.g. 2006-01-02 or 02.01.2006.

Examples:
  dsommctl settings prefs
  dsommctl settings prefs set --max-level 3
  dsommctl settings prefs set --date-format 02.01.2006`,
	RunE: runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the display preferences",
	RunE:  runPrefsSet,
}

func init() {
	prefsSetCmd.Flags().IntVar(&prefsMaxLevel, "max-level", 0, "Highest maturity level to show")
	prefsSetCmd.Flags().StringVar(&prefsDateFormat, "date-format", "", "Date layout")
	prefsCmd.AddCommand(prefsSetCmd)
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	prefs, err := client.Preferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, prefs, nil)
	}
	return printPrefs(prefs)
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("max-level") && !flags.Changed("date-format") {
		return fmt.Errorf("nothing to set. Use --max-level or --date-format")
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	prefs, err := client.Preferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	if flags.Changed("max-level") {
		prefs.MaxLevel = prefsMaxLevel
	}
	if flags.Changed("date-format") {
		prefs.DateFormat = prefsDateFormat
	}

	updated, err := client.SetPreferences(*prefs)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, updated, "Preferences saved")
}

func printPrefs(prefs *apiclient.Preferences) error {
	example := "-"
	if prefs.DateFormat != "" {
		example = time.Now().Format(prefs.DateFormat)
	}
	return output.SimpleTable(os.Stdout, [][2]string{
		{"Max level", strconv.Itoa(prefs.MaxLevel)},
		{"Date format", cmdutil.EmptyOr(prefs.DateFormat, "-")},
		{"Today", example},
	})
}
