package cmdutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/dsomm/internal/cli/credentials"
	"github.com/marmos91/dsomm/internal/cli/output"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "single item", input: "ci", expected: []string{"ci"}},
		{name: "items with spaces", input: "Team A, Team B , Team C", expected: []string{"Team A", "Team B", "Team C"}},
		{name: "empty items filtered out", input: "foo,,bar,", expected: []string{"foo", "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCommaSeparatedList(tt.input)
			if strings.Join(result, "|") != strings.Join(tt.expected, "|") || len(result) != len(tt.expected) {
				t.Errorf("ParseCommaSeparatedList(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Building and testing of artifacts", 12, "Building an…"},
		{"short", 10, "short"},
		{"äöü", 2, "ä…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

type testTableRenderer struct {
	headers []string
	rows    [][]string
}

func (t testTableRenderer) Headers() []string { return t.headers }
func (t testTableRenderer) Rows() [][]string  { return t.rows }

func TestPrintOutput(t *testing.T) {
	data := []string{"Team A", "Team B"}
	renderer := testTableRenderer{
		headers: []string{"TEAM"},
		rows:    [][]string{{"Team A"}, {"Team B"}},
	}

	tests := []struct {
		format  string
		isEmpty bool
		want    string
	}{
		{format: "yaml", want: "- Team A\n- Team B\n"},
		{format: "table", isEmpty: true, want: "No teams.\n"},
	}
	for _, tt := range tests {
		Flags.Output = tt.format
		var buf bytes.Buffer
		if err := PrintOutput(&buf, data, tt.isEmpty, "No teams.", renderer); err != nil {
			t.Fatalf("PrintOutput(%s) error = %v", tt.format, err)
		}
		if buf.String() != tt.want {
			t.Errorf("PrintOutput(%s) = %q, want %q", tt.format, buf.String(), tt.want)
		}
	}

	Flags.Output = "json"
	var buf bytes.Buffer
	if err := PrintOutput(&buf, data, false, "No teams.", renderer); err != nil {
		t.Fatalf("PrintOutput(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"Team B"`) {
		t.Errorf("PrintOutput(json) = %q, missing expected data", buf.String())
	}
	Flags.Output = "table"
}

func TestGetOutputFormatParsed(t *testing.T) {
	tests := []struct {
		flagValue string
		expected  output.Format
		wantErr   bool
	}{
		{"table", output.FormatTable, false},
		{"json", output.FormatJSON, false},
		{"yaml", output.FormatYAML, false},
		{"invalid", output.FormatTable, true},
	}

	for _, tt := range tests {
		t.Run(tt.flagValue, func(t *testing.T) {
			Flags.Output = tt.flagValue
			result, err := GetOutputFormatParsed()
			if (err != nil) != tt.wantErr {
				t.Errorf("GetOutputFormatParsed() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("GetOutputFormatParsed() = %v, want %v", result, tt.expected)
			}
		})
	}
	Flags.Output = "table"
}

func TestGetClientResolution(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	Flags.ServerURL, Flags.Token = "", ""

	client, err := GetClient()
	if err != nil {
		t.Fatalf("GetClient() without context error = %v", err)
	}
	if client.BaseURL() != DefaultServerURL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), DefaultServerURL)
	}

	store, err := credentials.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetContext("prod", &credentials.Context{
		ServerURL: "https://dsomm.example.org",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
		Team:      "Team A",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := GetClient(); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Errorf("GetClient() with expired token error = %v, want expiry error", err)
	}

	Flags.Token = "fresh"
	client, err = GetClient()
	if err != nil {
		t.Fatalf("GetClient() with token flag error = %v", err)
	}
	if client.BaseURL() != "https://dsomm.example.org" {
		t.Errorf("BaseURL() = %q, want the context server", client.BaseURL())
	}
	Flags.Token = ""

	team, err := ResolveTeam("")
	if err != nil || team != "Team A" {
		t.Errorf("ResolveTeam(\"\") = %q, %v, want context team", team, err)
	}
	if team, _ := ResolveTeam("Team B"); team != "Team B" {
		t.Errorf("ResolveTeam(flag) = %q, want Team B", team)
	}
}

func TestWriteTo(t *testing.T) {
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "uuid,activity\n")
		return err
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, "-", write); err != nil {
		t.Fatalf("WriteTo stdout: %v", err)
	}
	if buf.String() != "uuid,activity\n" {
		t.Errorf("unexpected stdout output %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "mapping.csv")
	if err := WriteTo(&buf, path, write); err != nil {
		t.Fatalf("WriteTo file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "uuid,activity\n" {
		t.Errorf("unexpected file content %q", data)
	}

	boom := errors.New("boom")
	if err := WriteTo(&buf, path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}

	if err := WriteTo(&buf, filepath.Join(t.TempDir(), "missing", "x.csv"), write); err == nil {
		t.Error("expected error for missing directory")
	}
}
