package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a setting",
	Long: `Print the raw value of a setting.

Examples:
  dsommctl settings get report
  dsommctl settings get teams -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	setting, err := client.GetSetting(args[0])
	if err != nil {
		return fmt.Errorf("failed to get setting: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, setting, nil)
	}
	fmt.Println(strings.TrimRight(setting.Value, "\n"))
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
