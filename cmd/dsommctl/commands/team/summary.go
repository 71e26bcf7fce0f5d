package team

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/internal/cli/timeutil"
	"github.com/marmos91/dsomm/pkg/views"
)

var summaryGroup string

var summaryCmd = &cobra.Command{
	Use:   "summary [team]",
	Short: "Summarize the progress of a team or group",
	Long: `Show the completed and in-progress activities of a team, or of all
teams of a group. Without arguments the default team of the current
context is used.

Examples:
  dsommctl team summary "Team A"
  dsommctl team summary --group Backend -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryGroup, "group", "g", "", "Summarize a group instead of a team")
}

// SummaryTable renders the in-progress activities of a summary.
type SummaryTable struct {
	Summary *views.TeamSummary
	Titles  []string
	Layout  string
}

// Headers implements TableRenderer.
func (t SummaryTable) Headers() []string {
	headers := make([]string, len(t.Summary.ColumnNames))
	copy(headers, t.Summary.ColumnNames)
	return headers
}

// Rows implements TableRenderer.
func (t SummaryTable) Rows() [][]string {
	multi := len(t.Summary.Teams) > 1
	rows := make([][]string, 0, len(t.Summary.ActivitiesInProgress))
	for _, p := range t.Summary.ActivitiesInProgress {
		var row []string
		if multi {
			row = append(row, p.Team)
		}
		dim, name := "-", p.ActivityUUID
		if p.Activity != nil {
			dim, name = p.Activity.Dimension, p.Activity.Name
		}
		row = append(row, dim, cmdutil.Truncate(name, 40))
		for _, title := range t.Titles {
			if d, ok := p.Progress[title]; ok {
				row = append(row, timeutil.FormatDate(&d, t.Layout))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func runSummary(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	var summary *views.TeamSummary
	if summaryGroup != "" {
		if len(args) > 0 {
			return fmt.Errorf("give either a team or --group, not both")
		}
		summary, err = client.GroupSummary(summaryGroup)
	} else {
		var team string
		if len(args) > 0 {
			team = args[0]
		}
		if team, err = cmdutil.ResolveTeam(team); err != nil {
			return err
		}
		summary, err = client.TeamSummary(team)
	}
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, summary, nil)
	}

	meta, err := client.Meta()
	if err != nil {
		return fmt.Errorf("failed to get meta: %w", err)
	}

	layout := timeutil.DateLayout
	if prefs, err := client.Preferences(); err == nil && prefs.DateFormat != "" {
		layout = prefs.DateFormat
	}

	lastUpdated := "-"
	if summary.LastUpdated != nil {
		lastUpdated = timeutil.FormatDate(summary.LastUpdated, layout) +
			" (" + timeutil.FormatAge(*summary.LastUpdated, time.Now()) + ")"
	}
	if err := output.SimpleTable(os.Stdout, [][2]string{
		{"Name", summary.Name},
		{"Teams", fmt.Sprintf("%d", len(summary.Teams))},
		{"Completed", completedLine(summary.UniqueActivitiesCompletedCount, meta.Activities)},
		{"In progress", fmt.Sprintf("%d", summary.UniqueActivitiesInProgressCount)},
		{"Last updated", lastUpdated},
	}); err != nil {
		return err
	}

	if len(summary.ActivitiesInProgress) == 0 {
		return nil
	}
	fmt.Println()
	return output.PrintTable(os.Stdout, SummaryTable{Summary: summary, Titles: inProgressTitles(summary.ColumnNames), Layout: layout})
}

func completedLine(completed, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d", completed)
	}
	share := float64(completed) / float64(total)
	return fmt.Sprintf("%d of %d %s %s", completed, total, output.Bar(share, 10), output.Percent(share))
}

// inProgressTitles drops the leading team and activity columns.
func inProgressTitles(columns []string) []string {
	for i, c := range columns {
		if c == "Activity" {
			return columns[i+1:]
		}
	}
	return nil
}
