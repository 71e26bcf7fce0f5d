// Package settings implements the server settings commands for dsommctl.
package settings

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for settings.
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage server settings",
	Long: `Manage the settings stored on the dsomm server.

Settings are raw key/value pairs shared by all clients, such as the
stored matrix filters or the report configuration. The "prefs"
subcommand edits the display preferences.

Examples:
  dsommctl settings list
  dsommctl settings get report
  dsommctl settings set settings.max_level 3
  dsommctl settings delete matrix.filters
  dsommctl settings prefs set --max-level 3 --date-format 02.01.2006`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(prefsCmd)
}
