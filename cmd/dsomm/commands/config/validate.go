package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the dsomm configuration file.

Checks for syntax errors, missing required fields, and invalid values.
Use 'dsomm check' to validate the data files themselves.

Examples:
  # Validate default config
  dsomm config validate

  # Validate specific config file
  dsomm config validate --config /etc/dsomm/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if !cfg.API.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - the API accepts edits without a token")
	}
	if cfg.Data.Watch && cfg.Data.Source != config.SourceFS {
		warnings = append(warnings, "data.watch only applies to the fs source")
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Data source:     %s\n", cfg.Data.Source)
	if cfg.Data.Source == config.SourceFS {
		fmt.Printf("  Data path:       %s\n", cfg.Data.Path)
	} else {
		fmt.Printf("  Data bucket:     %s/%s\n", cfg.Data.S3.Bucket, cfg.Data.S3.Prefix)
	}
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  API port:        %d\n", cfg.API.Port)
	fmt.Printf("  Metrics:         %t\n", cfg.Metrics.Enabled)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
