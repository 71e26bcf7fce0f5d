package context

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context",
	Long: `Show the current context and its token.

Examples:
  dsommctl context current
  dsommctl context current -o yaml`,
	RunE: runCurrent,
}

func runCurrent(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ctx, err := store.GetCurrentContext()
	if err != nil {
		return fmt.Errorf("no current context. Run 'dsommctl login' first")
	}

	info := ContextInfo{
		Name:      store.GetCurrentContextName(),
		Current:   true,
		ServerURL: ctx.ServerURL,
		Subject:   ctx.Subject,
		Scopes:    ctx.Scopes,
		Team:      ctx.Team,
	}
	if !ctx.ExpiresAt.IsZero() {
		info.Expires = ctx.ExpiresAt.Local().Format("2006-01-02 15:04")
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, info, nil)
	}

	status := "valid"
	switch {
	case ctx.Token == "":
		status = "none (read-only)"
	case ctx.IsExpired():
		status = "expired"
	}

	return output.SimpleTable(os.Stdout, [][2]string{
		{"Context", info.Name},
		{"Server", info.ServerURL},
		{"Subject", cmdutil.EmptyOr(info.Subject, "-")},
		{"Scopes", cmdutil.EmptyOr(strings.Join(info.Scopes, ", "), "read")},
		{"Token", status},
		{"Expires", cmdutil.EmptyOr(info.Expires, "never")},
		{"Team", cmdutil.EmptyOr(info.Team, "-")},
	})
}
