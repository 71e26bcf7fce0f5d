package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/pkg/api"
	"github.com/marmos91/dsomm/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample dsomm configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/dsomm/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  dsomm init

  # Initialize with custom path
  dsomm init --config /etc/dsomm/config.yaml

  # Force overwrite existing config
  dsomm init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point data.path at your DSOMM YAML directory")
	fmt.Println("  2. Start the server with: dsomm serve")
	fmt.Println("  3. Mint a token for dsommctl with: dsomm token --scope write")
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, provide the secret through the environment:")
	fmt.Printf("    export %s=$(openssl rand -hex 32)\n", api.EnvJWTSecret)

	return nil
}
