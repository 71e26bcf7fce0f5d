package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/config"
)

const redacted = "********"

var (
	showOutput  string
	showSecrets bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective dsomm configuration, with defaults and environment
overrides applied. Secrets are masked unless --show-secrets is given.

Examples:
  # Show default config as YAML
  dsomm config show

  # Show as JSON
  dsomm config show --output json`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secrets in clear text")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}
	if !showSecrets {
		redactSecrets(cfg)
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}

func redactSecrets(cfg *config.Config) {
	if cfg.API.JWT.Secret != "" {
		cfg.API.JWT.Secret = redacted
	}
	if cfg.Database.Postgres.Password != "" {
		cfg.Database.Postgres.Password = redacted
	}
	if cfg.Data.S3.SecretKey != "" {
		cfg.Data.S3.SecretKey = redacted
	}
}
