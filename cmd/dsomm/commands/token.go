package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/api"
	"github.com/marmos91/dsomm/pkg/api/auth"
	"github.com/marmos91/dsomm/pkg/config"
)

var (
	tokenSubject string
	tokenScopes  []string
	tokenTTL     time.Duration
	tokenOutput  string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token",
	Long: `Mint a bearer token signed with the configured JWT secret.

Tokens with the write scope may edit progress, teams and settings. Read
access needs no token.

Examples:
  # Token for a CI job that records progress
  dsomm token --subject ci --scope write --ttl 720h

  # Print the token as JSON
  dsomm token --subject alice -o json`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dsommctl", "Token subject (who is editing)")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", []string{string(auth.ScopeWrite)}, "Scopes to grant (write, read)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default: api.jwt.token_duration)")
	tokenCmd.Flags().StringVarP(&tokenOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	secret := cfg.API.GetJWTSecret()
	if secret == "" {
		return fmt.Errorf("no JWT secret configured: set api.jwt.secret or %s", api.EnvJWTSecret)
	}

	duration := cfg.API.JWT.TokenDuration
	if tokenTTL > 0 {
		duration = tokenTTL
	}

	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:        secret,
		Issuer:        cfg.API.JWT.Issuer,
		TokenDuration: duration,
	})
	if err != nil {
		return err
	}

	scopes := make([]auth.Scope, 0, len(tokenScopes))
	for _, s := range tokenScopes {
		switch auth.Scope(s) {
		case auth.ScopeWrite, auth.ScopeRead:
			scopes = append(scopes, auth.Scope(s))
		default:
			return fmt.Errorf("unknown scope %q (valid: write, read)", s)
		}
	}

	token, err := svc.GenerateToken(tokenSubject, scopes...)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(tokenOutput)
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		fmt.Println(token.AccessToken)
		return nil
	}
	return output.Render(os.Stdout, format, token, nil)
}
