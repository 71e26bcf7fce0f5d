package report

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	showMaxLevel   int
	showDimensions []string
	showTags       []string
	showTeams      []string
	showColumns    []string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the report",
	Long: `Show the progress report. Flags override the stored configuration for
this call only.

Examples:
  dsommctl report show
  dsommctl report show --dimension "Build" --column risk
  dsommctl report show -o json > report.json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVar(&showMaxLevel, "max-level", 0, "Highest level to include")
	showCmd.Flags().StringSliceVar(&showDimensions, "dimension", nil, "Sub-dimension to include (repeatable)")
	showCmd.Flags().StringSliceVar(&showTags, "tag", nil, "Only activities carrying this tag (repeatable)")
	showCmd.Flags().StringSliceVar(&showTeams, "team", nil, "Team to include (repeatable)")
	showCmd.Flags().StringSliceVar(&showColumns, "column", nil, "Extra column to show (repeatable)")
}

// SectionTable renders one report section.
type SectionTable struct {
	Section views.ReportSection
	Columns []string
	Teams   []string
}

// Headers implements TableRenderer.
func (t SectionTable) Headers() []string {
	headers := []string{"ACTIVITY"}
	headers = append(headers, t.Columns...)
	return append(headers, t.Teams...)
}

// Rows implements TableRenderer.
func (t SectionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Section.Rows))
	for _, r := range t.Section.Rows {
		row := []string{cmdutil.Truncate(r.Name, 40)}
		for _, c := range t.Columns {
			row = append(row, cmdutil.EmptyOr(cmdutil.Truncate(r.Fields[c], 30), "-"))
		}
		for _, team := range t.Teams {
			cell, ok := r.Teams[team]
			switch {
			case !ok || cell.Title == "":
				row = append(row, "-")
			case cell.Date != "":
				row = append(row, fmt.Sprintf("%s (%s)", cell.Title, cell.Date))
			default:
				row = append(row, cell.Title)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	report, err := client.Report(apiclient.ReportQuery{
		MaxLevel:   showMaxLevel,
		Dimensions: showDimensions,
		Tags:       showTags,
		Teams:      showTeams,
		Columns:    showColumns,
	})
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, report, nil)
	}

	if len(report.Sections) == 0 {
		fmt.Println("No activities match the report configuration.")
		return nil
	}

	fmt.Printf("Generated %s, overall progress %s %s\n",
		report.Generated, output.Bar(report.Progress, 20), output.Percent(report.Progress))
	for _, s := range report.Sections {
		fmt.Printf("\n%s / %s  %s %s\n", s.Category, s.Dimension, output.Bar(s.Progress, 10), output.Percent(s.Progress))
		if err := output.PrintTable(os.Stdout, SectionTable{Section: s, Columns: report.Columns, Teams: report.Teams}); err != nil {
			return err
		}
	}
	return nil
}
