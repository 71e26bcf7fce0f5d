// Package output renders dsommctl results as tables, JSON or YAML.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatTable outputs data in a formatted table.
	FormatTable Format = "table"
	// FormatJSON outputs data as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a string into a Format, returning an error if invalid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Render writes data in format. In table format it uses table, or YAML
// when table is nil.
func Render(w io.Writer, format Format, data any, table TableRenderer) error {
	switch format {
	case FormatJSON:
		return PrintJSON(w, data)
	case FormatYAML:
		return PrintYAML(w, data)
	case FormatTable:
		if table == nil {
			return PrintYAML(w, data)
		}
		return PrintTable(w, table)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Printer writes status messages, colored when enabled.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a new Printer.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Success prints a success message.
func (p *Printer) Success(msg string) {
	p.print("\033[32m", msg)
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	p.print("\033[31m", msg)
}

// Warning prints a warning message.
func (p *Printer) Warning(msg string) {
	p.print("\033[33m", msg)
}

func (p *Printer) print(color, msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "%s%s\033[0m\n", color, msg)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
