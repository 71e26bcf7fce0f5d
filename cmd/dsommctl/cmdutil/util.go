// Package cmdutil provides shared utilities for dsommctl commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marmos91/dsomm/internal/cli/credentials"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/internal/cli/prompt"
	"github.com/marmos91/dsomm/pkg/apiclient"
)

// DefaultServerURL is used when neither a flag nor a context names a server.
const DefaultServerURL = "http://localhost:8080"

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ServerURL string
	Token     string
	Output    string
	NoColor   bool
	Verbose   bool
}

// GetClient returns an API client for the current context. The --server and
// --token flags override the stored values. Without any context the local
// default server is used anonymously, which is enough for reading.
func GetClient() (*apiclient.Client, error) {
	serverURL := Flags.ServerURL
	token := Flags.Token

	store, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	ctx, err := store.GetCurrentContext()
	if err != nil && !errors.Is(err, credentials.ErrNoCurrentContext) {
		return nil, err
	}
	if ctx != nil {
		if serverURL == "" {
			serverURL = ctx.ServerURL
		}
		if token == "" {
			if ctx.IsExpired() {
				return nil, fmt.Errorf("token of context %q expired on %s. Run 'dsommctl login' with a new token",
					store.GetCurrentContextName(), ctx.ExpiresAt.Format("2006-01-02 15:04"))
			}
			token = ctx.Token
		}
	}
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	client := apiclient.New(serverURL)
	if token != "" {
		client = client.WithToken(token)
	}
	return client, nil
}

// ResolveTeam returns flagValue, or the default team of the current context.
func ResolveTeam(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	store, err := credentials.NewStore()
	if err != nil {
		return "", err
	}
	if ctx, err := store.GetCurrentContext(); err == nil && ctx.Team != "" {
		return ctx.Team, nil
	}
	return "", fmt.Errorf("no team given. Use --team or set a default with 'dsommctl context team <name>'")
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// PrintOutput prints data in the selected format. In table format it prints
// emptyMsg when isEmpty is set, otherwise the table.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatTable && isEmpty {
		_, _ = fmt.Fprintln(w, emptyMsg)
		return nil
	}
	return output.Render(w, format, data, table)
}

// PrintResourceWithSuccess prints data as JSON or YAML, or successMsg in
// table format.
func PrintResourceWithSuccess(w io.Writer, data any, successMsg string) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		PrintSuccess(successMsg)
		return nil
	}
	return output.Render(w, format, data, nil)
}

// PrintSuccess prints a success message if the output format is table.
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	output.NewPrinter(os.Stdout, !Flags.NoColor).Success(msg)
}

// PrintWarning prints a warning to stderr.
func PrintWarning(msg string) {
	output.NewPrinter(os.Stderr, !Flags.NoColor).Warning(msg)
}

// RunWithConfirmation asks before running fn unless force is set.
func RunWithConfirmation(question string, force bool, fn func() error, successMsg string) error {
	confirmed, err := prompt.ConfirmWithForce(question, force)
	if err != nil {
		return HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := fn(); err != nil {
		return err
	}

	PrintSuccess(successMsg)
	return nil
}

// ParseCommaSeparatedList parses a comma-separated string into a slice of trimmed strings.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// HandleAbort checks if error is an abort (Ctrl+C) and prints a message.
// Returns nil for abort (user cancelled), otherwise returns the original error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// WriteOrPrint writes data to path, or to w when path is empty or "-".
func WriteOrPrint(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Written to %s\n", path)
	return nil
}

// WriteTo runs write against w, or against the file at path when one is
// given. Errors from closing the file are reported, since they can mean the
// output is incomplete.
func WriteTo(w io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write %s: %w", path, cerr)
		}
	}()
	return write(f)
}
