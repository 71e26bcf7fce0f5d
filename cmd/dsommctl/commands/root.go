// Package commands implements the CLI commands of the dsommctl client.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	activitycmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/activity"
	ctxcmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/context"
	matrixcmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/matrix"
	progresscmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/progress"
	reportcmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/report"
	settingscmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/settings"
	teamcmd "github.com/marmos91/dsomm/cmd/dsommctl/commands/team"
	"github.com/marmos91/dsomm/internal/cli/credentials"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dsommctl",
	Short: "dsomm control - remote client for the DSOMM tracker",
	Long: `dsommctl is the command-line client of a dsomm server.

Browse the maturity model activities, record the progress of your teams,
and render the mapping, heatmap and report views through the REST API.

Use "dsommctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ServerURL, _ = cmd.Flags().GetString("server")
		cmdutil.Flags.Token, _ = cmd.Flags().GetString("token")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")

		if !cmd.Flags().Changed("output") || !cmd.Flags().Changed("no-color") {
			applyPreferences(cmd)
		}
	},
}

// applyPreferences fills flags the user did not set from the stored preferences.
func applyPreferences(cmd *cobra.Command) {
	store, err := credentials.NewStore()
	if err != nil {
		return
	}
	prefs := store.GetPreferences()
	if !cmd.Flags().Changed("output") && prefs.DefaultOutput != "" {
		cmdutil.Flags.Output = prefs.DefaultOutput
	}
	if !cmd.Flags().Changed("no-color") && prefs.Color == "never" {
		cmdutil.Flags.NoColor = true
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Server URL (overrides stored context)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (overrides stored context)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(ctxcmd.Cmd)
	rootCmd.AddCommand(activitycmd.Cmd)
	rootCmd.AddCommand(matrixcmd.Cmd)
	rootCmd.AddCommand(teamcmd.Cmd)
	rootCmd.AddCommand(progresscmd.Cmd)
	rootCmd.AddCommand(reportcmd.Cmd)
	rootCmd.AddCommand(settingscmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
