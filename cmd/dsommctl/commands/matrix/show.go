package matrix

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/views"
)

var (
	showTags       []string
	showDimensions []string
	showNames      bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the matrix",
	Long: `Show the maturity matrix. Without --tag or --dimension the filters
stored on the server apply.

Each cell lists the number of activities, or their names with --names.

Examples:
  dsommctl matrix show
  dsommctl matrix show --dimension "Build" --names
  dsommctl matrix show --tag ci -o json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringSliceVar(&showTags, "tag", nil, "Select activities carrying this tag (repeatable)")
	showCmd.Flags().StringSliceVar(&showDimensions, "dimension", nil, "Select this sub-dimension (repeatable)")
	showCmd.Flags().BoolVar(&showNames, "names", false, "List activity names instead of counts")
}

// MatrixTable renders matrix rows with one column per level.
type MatrixTable struct {
	Matrix *apiclient.Matrix
	Names  bool
}

// Headers implements TableRenderer.
func (t MatrixTable) Headers() []string {
	headers := []string{"DIMENSION", "SUB-DIMENSION"}
	for _, l := range t.Matrix.Levels {
		headers = append(headers, strings.ToUpper(l.Name))
	}
	return headers
}

// Rows implements TableRenderer.
func (t MatrixTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Matrix.Rows))
	for i := range t.Matrix.Rows {
		r := &t.Matrix.Rows[i]
		row := []string{r.Category, r.Dimension}
		for lvl := 1; lvl <= len(t.Matrix.Levels); lvl++ {
			row = append(row, t.cell(r.Level(lvl)))
		}
		rows = append(rows, row)
	}
	return rows
}

// MergeColumns implements output.MergedColumns.
func (t MatrixTable) MergeColumns() []int {
	return []int{0}
}

func (t MatrixTable) cell(activities []*model.Activity) string {
	if len(activities) == 0 {
		return "-"
	}
	if !t.Names {
		return strconv.Itoa(len(activities))
	}
	names := make([]string, len(activities))
	for i, a := range activities {
		names[i] = cmdutil.Truncate(a.Name, 30)
	}
	return strings.Join(names, "\n")
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	var sel *views.MatrixSelection
	if len(showTags) > 0 || len(showDimensions) > 0 {
		sel = &views.MatrixSelection{Tags: showTags, Dimensions: showDimensions}
	}

	m, err := client.Matrix(sel)
	if err != nil {
		return fmt.Errorf("failed to get matrix: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		if views.HasFilterValues(m.TagFilters) {
			fmt.Printf("Tags: %s\n", strings.Join(m.TagFilters.Selected(), ", "))
		}
		if views.HasFilterValues(m.DimensionFilters) {
			fmt.Printf("Dimensions: %s\n", strings.Join(m.DimensionFilters.Selected(), ", "))
		}
	}

	return cmdutil.PrintOutput(os.Stdout, m, len(m.Rows) == 0, "No activities match the filters.", MatrixTable{Matrix: m, Names: showNames})
}
