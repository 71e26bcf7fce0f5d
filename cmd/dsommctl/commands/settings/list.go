package settings

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/timeutil"
	"github.com/marmos91/dsomm/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored settings",
	RunE:    runList,
}

// SettingList is a list of settings for table rendering.
type SettingList []apiclient.Setting

// Headers implements TableRenderer.
func (sl SettingList) Headers() []string {
	return []string{"KEY", "VALUE", "UPDATED"}
}

// Rows implements TableRenderer.
func (sl SettingList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		rows = append(rows, []string{
			s.Key,
			cmdutil.Truncate(oneLine(s.Value), 60),
			timeutil.FormatDate(&s.UpdatedAt, "2006-01-02 15:04"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	settings, err := client.ListSettings()
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, settings, len(settings) == 0, "No settings stored.", SettingList(settings))
}
