package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	heatmapTeam     string
	heatmapGroup    string
	heatmapTeams    string
	heatmapMaxLevel int
	heatmapSVG      string
	heatmapTheme    string
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the implementation heatmap",
	Long: `Show how far the selected teams got in every dimension and level.

Each cell is the average progress of the activities in that sector over
the selected teams. Cells without activities are shown as "-".

Examples:
  # Heatmap of all teams
  dsommctl heatmap

  # Heatmap of one group
  dsommctl heatmap --group Backend

  # Render the circular heatmap as SVG
  dsommctl heatmap --team "Team A" --svg heatmap.svg --theme dark`,
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapTeam, "team", "", "Show a single team")
	heatmapCmd.Flags().StringVar(&heatmapGroup, "group", "", "Show the teams of a group")
	heatmapCmd.Flags().StringVar(&heatmapTeams, "teams", "", "Comma-separated list of teams")
	heatmapCmd.Flags().IntVar(&heatmapMaxLevel, "max-level", 0, "Highest level to show")
	heatmapCmd.Flags().StringVar(&heatmapSVG, "svg", "", "Write the SVG rendering to this file (- for stdout)")
	heatmapCmd.Flags().StringVar(&heatmapTheme, "theme", "light", "SVG theme (light|dark)")
	heatmapCmd.MarkFlagsMutuallyExclusive("team", "group", "teams")
}

// HeatmapTable renders the heatmap with one row per dimension.
type HeatmapTable struct {
	*views.Heatmap
}

// Headers implements TableRenderer.
func (h HeatmapTable) Headers() []string {
	headers := []string{"DIMENSION"}
	for lvl := 1; lvl <= h.MaxLevel; lvl++ {
		name := fmt.Sprintf("LEVEL %d", lvl)
		if lvl <= len(h.Levels) && h.Levels[lvl-1] != "" {
			name = strings.ToUpper(h.Levels[lvl-1])
		}
		headers = append(headers, name)
	}
	return headers
}

// Rows implements TableRenderer.
func (h HeatmapTable) Rows() [][]string {
	cells := make(map[string][]string, len(h.Dimensions))
	for _, d := range h.Dimensions {
		cells[d] = make([]string, h.MaxLevel)
	}
	for _, s := range h.Sectors {
		row, ok := cells[s.Dimension]
		if !ok || s.Level < 1 || s.Level > h.MaxLevel {
			continue
		}
		if s.Disabled {
			row[s.Level-1] = "-"
			continue
		}
		row[s.Level-1] = output.Bar(s.Progress, 10) + " " + output.Percent(s.Progress)
	}

	rows := make([][]string, 0, len(h.Dimensions))
	for _, d := range h.Dimensions {
		rows = append(rows, append([]string{d}, cells[d]...))
	}
	return rows
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	q := apiclient.HeatmapQuery{
		Team:     heatmapTeam,
		Group:    heatmapGroup,
		Teams:    cmdutil.ParseCommaSeparatedList(heatmapTeams),
		MaxLevel: heatmapMaxLevel,
	}

	if heatmapSVG != "" {
		if heatmapTheme != "light" && heatmapTheme != "dark" {
			return fmt.Errorf("invalid theme %q (use light or dark)", heatmapTheme)
		}
		data, err := client.HeatmapSVG(q, heatmapTheme)
		if err != nil {
			return fmt.Errorf("failed to render heatmap: %w", err)
		}
		return cmdutil.WriteOrPrint(os.Stdout, heatmapSVG, data)
	}

	heatmap, err := client.Heatmap(q)
	if err != nil {
		return fmt.Errorf("failed to get heatmap: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		fmt.Printf("Teams: %s\n", cmdutil.EmptyOr(strings.Join(heatmap.VisibleTeams, ", "), "-"))
		if len(heatmap.SelectedGroups) > 0 {
			fmt.Printf("Group: %s\n", strings.Join(heatmap.SelectedGroups, ", "))
		}
		fmt.Println()
	}
	return cmdutil.PrintOutput(os.Stdout, heatmap, len(heatmap.Sectors) == 0, "No activities loaded.", HeatmapTable{heatmap})
}
