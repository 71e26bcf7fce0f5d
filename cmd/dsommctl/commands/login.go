package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/credentials"
	"github.com/marmos91/dsomm/internal/cli/prompt"
	"github.com/marmos91/dsomm/pkg/apiclient"
)

var (
	loginServer string
	loginToken  string
	loginName   string
	loginTeam   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a server and token as a context",
	Long: `Save the connection to a dsomm server as a named context.

Tokens are minted on the server host with 'dsomm token'. Reading does not
need a token; recording progress or editing teams and settings does.

Examples:
  # Interactive login
  dsommctl login

  # Non-interactive login
  dsommctl login --server http://dsomm:8080 --token "$(dsomm token)"

  # Save under a custom name with a default team
  dsommctl login --server http://dsomm:8080 --name prod --team "Team A"`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "Server URL")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token (empty for read-only access)")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Context name (default derived from the server URL)")
	loginCmd.Flags().StringVar(&loginTeam, "team", "", "Default team for progress commands")
}

func runLogin(cmd *cobra.Command, args []string) error {
	var err error

	serverURL := loginServer
	if serverURL == "" {
		serverURL = cmdutil.Flags.ServerURL
	}
	if serverURL == "" {
		serverURL, err = prompt.InputServerURL(cmdutil.DefaultServerURL)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	} else if err := prompt.ValidateServerURL(serverURL); err != nil {
		return err
	}

	token := loginToken
	if token == "" && !cmd.Flags().Changed("token") {
		token, err = prompt.Token("Token (leave empty for read-only)")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	ctx, err := credentials.NewContext(serverURL, token)
	if err != nil {
		return err
	}
	ctx.Team = loginTeam

	client := apiclient.New(ctx.ServerURL)
	if _, err := client.Health(); err != nil {
		return fmt.Errorf("server %s is not reachable: %w", ctx.ServerURL, err)
	}

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	name := loginName
	if name == "" {
		name = credentials.ContextName(ctx.ServerURL)
	}
	if err := store.SetContext(name, ctx); err != nil {
		return fmt.Errorf("failed to save context: %w", err)
	}
	if err := store.UseContext(name); err != nil {
		return err
	}

	access := "read-only"
	if ctx.CanWrite() {
		access = "read-write"
	}
	cmdutil.PrintSuccess(fmt.Sprintf("Logged in to %s as context %q (%s)", ctx.ServerURL, name, access))
	if !ctx.ExpiresAt.IsZero() {
		fmt.Printf("Token expires on %s\n", ctx.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
