package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/config"
	"github.com/marmos91/dsomm/pkg/loader"
)

var checkData string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the data files",
	Long: `Load meta.yaml, the activity files and the team progress file and report
validation problems such as duplicate activities or a progress definition
without a completed state. Stored edits are not applied.

Examples:
  # Check the configured data source
  dsomm check

  # Check a local directory
  dsomm check --data ./src/assets/YAML`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkData, "data", "", "Data directory (overrides data.path)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}
	if checkData != "" {
		cfg.Data.Source = config.SourceFS
		cfg.Data.Path = checkData
	}
	// Problems go to stdout; keep the log quiet.
	cfg.Logging.Level = "ERROR"
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	src, err := config.CreateSource(ctx, cfg.Data)
	if err != nil {
		return err
	}

	data, err := loader.New(src, loader.Options{MetaFile: cfg.Data.MetaFile}).Load(ctx)
	if err != nil {
		var verr *loader.DataValidationError
		if errors.As(err, &verr) {
			fmt.Printf("%s: %s\n\n", src, verr.Context)
			for _, p := range verr.Problems {
				fmt.Printf("  - %s\n", p)
			}
			fmt.Println()
		}
		return fmt.Errorf("data check failed: %w", err)
	}

	pairs := [][2]string{
		{"Source", src.String()},
		{"Activities", fmt.Sprint(len(data.Activities.AllActivities()))},
		{"Dimensions", fmt.Sprint(len(data.Activities.AllDimensionNames()))},
		{"Max level", fmt.Sprint(data.MaxLevel())},
		{"Teams", fmt.Sprint(len(data.Meta.Teams))},
		{"Progress states", fmt.Sprint(len(data.Progress.Titles()))},
	}
	if m := data.Meta.ActivityMeta; m != nil && m.DsommVersion != "" {
		pairs = append(pairs, [2]string{"DSOMM version", m.DsommVersion})
	}
	return output.SimpleTable(os.Stdout, pairs)
}
