package context

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all configured contexts",
	Long: `List all saved contexts. The current context is marked with "*".

Examples:
  dsommctl context list
  dsommctl context list -o json`,
	RunE: runList,
}

// ContextInfo describes a saved context for display.
type ContextInfo struct {
	Name      string   `json:"name"`
	Current   bool     `json:"current"`
	ServerURL string   `json:"server_url"`
	Subject   string   `json:"subject,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	Team      string   `json:"team,omitempty"`
	Expires   string   `json:"expires,omitempty"`
}

// ContextList is a list of contexts for table rendering.
type ContextList []ContextInfo

// Headers implements TableRenderer.
func (cl ContextList) Headers() []string {
	return []string{"CURRENT", "NAME", "SERVER", "SUBJECT", "SCOPES", "TEAM", "EXPIRES"}
}

// Rows implements TableRenderer.
func (cl ContextList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		current := ""
		if c.Current {
			current = "*"
		}
		rows = append(rows, []string{
			current,
			c.Name,
			c.ServerURL,
			cmdutil.EmptyOr(c.Subject, "-"),
			cmdutil.EmptyOr(strings.Join(c.Scopes, ","), "read"),
			cmdutil.EmptyOr(c.Team, "-"),
			cmdutil.EmptyOr(c.Expires, "never"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	current := store.GetCurrentContextName()
	var list ContextList
	for _, name := range store.ListContexts() {
		ctx, err := store.GetContext(name)
		if err != nil {
			return err
		}
		info := ContextInfo{
			Name:      name,
			Current:   name == current,
			ServerURL: ctx.ServerURL,
			Subject:   ctx.Subject,
			Scopes:    ctx.Scopes,
			Team:      ctx.Team,
		}
		if !ctx.ExpiresAt.IsZero() {
			exp := ctx.ExpiresAt
			info.Expires = timeutil.FormatDate(&exp, "2006-01-02 15:04")
		}
		list = append(list, info)
	}

	return cmdutil.PrintOutput(os.Stdout, list, len(list) == 0,
		"No contexts configured. Run 'dsommctl login' to add one.", list)
}
