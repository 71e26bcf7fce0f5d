package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	mappingSort     string
	mappingSearch   string
	mappingMaxLevel int
	mappingCSV      bool
	mappingOut      string
)

var mappingSortModes = map[string]views.SortMode{
	"activity": views.SortByActivity,
	"samm":     views.SortBySAMM,
	"iso":      views.SortByISO,
	"iso22":    views.SortByISO22,
}

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show the mapping of activities to SAMM and ISO 27001",
	Long: `Show which OWASP SAMM and ISO 27001 controls every activity maps to.

The search terms are matched against all columns; rows must match every
term. Use --csv to download the full mapping as a spreadsheet.

Examples:
  # Mapping ordered by SAMM stream
  dsommctl mapping --sort samm

  # Rows that mention both terms
  dsommctl mapping --search "pipeline secrets"

  # Export as CSV
  dsommctl mapping --csv --out mapping.csv`,
	RunE: runMapping,
}

func init() {
	mappingCmd.Flags().StringVar(&mappingSort, "sort", "activity", "Sort order (activity|samm|iso|iso22)")
	mappingCmd.Flags().StringVarP(&mappingSearch, "search", "s", "", "Space separated search terms")
	mappingCmd.Flags().IntVar(&mappingMaxLevel, "max-level", 0, "Hide activities above this level")
	mappingCmd.Flags().BoolVar(&mappingCSV, "csv", false, "Output CSV")
	mappingCmd.Flags().StringVar(&mappingOut, "out", "", "Write to file instead of stdout")
}

// MappingList is a list of mapping rows for table rendering.
type MappingList []views.MappingRow

// Headers implements TableRenderer.
func (ml MappingList) Headers() []string {
	return []string{"DIMENSION", "SUB-DIMENSION", "ACTIVITY", "LEVEL", "SAMM", "ISO 27001:2017", "ISO 27001:2022"}
}

// Rows implements TableRenderer.
func (ml MappingList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, r := range ml {
		rows = append(rows, []string{
			r.Dimension,
			r.SubDimension,
			cmdutil.Truncate(r.ActivityName, 40),
			strconv.Itoa(r.Level),
			cmdutil.EmptyOr(strings.Join(r.SAMM2, ", "), "-"),
			cmdutil.EmptyOr(strings.Join(r.ISO17, ", "), "-"),
			cmdutil.EmptyOr(strings.Join(r.ISO22, ", "), "-"),
		})
	}
	return rows
}

// MergeColumns implements output.MergedColumns.
func (ml MappingList) MergeColumns() []int {
	return []int{0, 1}
}

func runMapping(cmd *cobra.Command, args []string) error {
	mode, ok := mappingSortModes[strings.ToLower(mappingSort)]
	if !ok {
		return fmt.Errorf("invalid sort order %q (use activity, samm, iso or iso22)", mappingSort)
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	q := apiclient.MappingQuery{
		Terms:    strings.Fields(mappingSearch),
		Sort:     mode,
		MaxLevel: mappingMaxLevel,
	}

	if mappingCSV {
		data, err := client.MappingCSV(q)
		if err != nil {
			return fmt.Errorf("failed to export mapping: %w", err)
		}
		return cmdutil.WriteOrPrint(os.Stdout, mappingOut, data)
	}

	rows, err := client.Mapping(q)
	if err != nil {
		return fmt.Errorf("failed to get mapping: %w", err)
	}

	return cmdutil.WriteTo(os.Stdout, mappingOut, func(w io.Writer) error {
		return cmdutil.PrintOutput(w, rows, len(rows) == 0, "No activities match.", MappingList(rows))
	})
}
