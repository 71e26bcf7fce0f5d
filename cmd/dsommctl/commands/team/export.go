package team

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export teams and groups as YAML",
	Long: `Export the current teams and groups in the format of meta.yaml, so
edits made on the server can be committed to the data repository.

Examples:
  dsommctl team export
  dsommctl team export --out teams.yaml`,
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

	text, err := client.ExportTeams()
	if err != nil {
		return fmt.Errorf("failed to export teams: %w", err)
	}
	return cmdutil.WriteOrPrint(os.Stdout, exportOut, []byte(text))
}
