package settings

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var setFile string

var setCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a setting",
	Long: `Store the raw value of a setting. The server validates known keys.

Use --file to read the value from a file, or "-" for stdin.

Examples:
  dsommctl settings set settings.max_level 3
  dsommctl settings set matrix.filters '{"tags":["ci"]}'
  dsommctl settings set report --file report.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a setting",
	Long: `Delete a stored setting. The server falls back to the default.

Examples:
  dsommctl settings delete report
  dsommctl settings delete teams --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	setCmd.Flags().StringVarP(&setFile, "file", "f", "", "Read the value from a file (- for stdin)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	var value string
	switch {
	case len(args) == 2 && setFile != "":
		return fmt.Errorf("give either a value or --file, not both")
	case len(args) == 2:
		value = args[1]
	case setFile == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		value = string(b)
	case setFile != "":
		b, err := os.ReadFile(setFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", setFile, err)
		}
		value = string(b)
	default:
		return fmt.Errorf("no value given. Pass it as argument or use --file")
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	setting, err := client.SetSetting(key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if setting == nil {
		cmdutil.PrintSuccess(fmt.Sprintf("Setting %q cleared", key))
		return nil
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, setting, fmt.Sprintf("Setting %q saved", key))
}

func runDelete(cmd *cobra.Command, args []string) error {
	key := args[0]

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	return cmdutil.RunWithConfirmation(fmt.Sprintf("Delete setting %q", key), deleteForce, func() error {
		if err := client.DeleteSetting(key); err != nil {
			return fmt.Errorf("failed to delete setting: %w", err)
		}
		return nil
	}, fmt.Sprintf("Setting %q deleted", key))
}
