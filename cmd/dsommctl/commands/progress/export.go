package progress

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export progress as a team progress YAML file",
	Long: `Export the recorded progress in the format of the team progress file,
with the activity names as comments.

Examples:
  dsommctl progress export
  dsommctl progress export --out team-progress.yaml`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	text, err := client.ExportProgress()
	if err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}
	return cmdutil.WriteOrPrint(os.Stdout, exportOut, []byte(text))
}
