package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/pkg/config"
	"github.com/marmos91/dsomm/pkg/tracker"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <progress|teams>",
	Short: "Export edits as YAML",
	Long: `Export the recorded progress or the edited teams as YAML, merged with
the data files, without starting the server.

The progress export has the format of the team progress file and can be
committed to the data repository. The teams export can be pasted into
meta.yaml.

Examples:
  # Write the team progress file
  dsomm export progress --out data/team-progress.yaml

  # Print the teams and groups
  dsomm export teams`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"progress", "teams"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	var export func(*tracker.Service, context.Context) (string, error)
	switch args[0] {
	case "progress":
		export = (*tracker.Service).ExportProgressYAML
	case "teams":
		export = (*tracker.Service).ExportTeamsYAML
	default:
		return fmt.Errorf("unknown export %q (valid: progress, teams)", args[0])
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeStore, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	out, err := export(svc, ctx)
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", args[0], exportOut)
	return nil
}
