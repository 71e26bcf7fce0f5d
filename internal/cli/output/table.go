package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by types that can render themselves as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// MergedColumns is implemented by tables whose leading columns repeat, such
// as the dimension of matrix rows. Equal adjacent cells in these columns are
// printed once.
type MergedColumns interface {
	MergeColumns() []int
}

// PrintTable writes data as a borderless table. Cells may span several lines.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := newTable(w)
	table.SetHeader(data.Headers())
	table.SetAutoFormatHeaders(true)
	if m, ok := data.(MergedColumns); ok {
		table.SetAutoMergeCellsByColumnIndex(m.MergeColumns())
	}
	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}

// SimpleTable prints "label : value" pairs, e.g. the details of one activity.
func SimpleTable(w io.Writer, pairs [][2]string) error {
	table := newTable(w)
	// The separator is only printed when cells keep their whitespace.
	table.SetNoWhiteSpace(false)
	table.SetColumnSeparator(":")
	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}
	table.Render()
	return nil
}

// TableData is a TableRenderer built row by row.
type TableData struct {
	headers []string
	rows    [][]string
}

// NewTableData creates a new TableData with the given headers.
func NewTableData(headers ...string) *TableData {
	return &TableData{headers: headers, rows: [][]string{}}
}

// AddRow adds a row to the table.
func (t *TableData) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *TableData) Headers() []string { return t.headers }
func (t *TableData) Rows() [][]string { return t.rows }

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
