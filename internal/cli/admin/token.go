package admin

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/auth"
	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/models"
	"github.com/thenoetrevino/relabel/internal/user"
)

// TokenCmd returns the token subcommand
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token",
		Long: `Sign a bearer token with auth.secret. The user ID is recorded as the
author of every change made with the token.

Examples:
  relabel token
  relabel token --user=alice
  relabel token --user=bob --role=viewer --ttl=1h

  # Use it for subsequent commands
  export RELABEL_CLIENT_TOKEN=$(relabel token --user=alice --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}

	cmd.Flags().String("user", "", "User ID the token acts as (defaults to the system user)")
	cmd.Flags().StringSlice("role", []string{auth.RoleAdmin}, "Roles to grant")
	cmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to auth.token_ttl)")

	return cmd
}

// TokenResult is the JSON output of the token command
type TokenResult struct {
	Token string   `json:"token"`
	User  string   `json:"user"`
	Roles []string `json:"roles"`
}

func runToken(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)
	userFlag, _ := cmd.Flags().GetString("user")
	subject := user.Resolve(userFlag)
	roles, _ := cmd.Flags().GetStringSlice("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl <= 0 {
		ttl = c.Config.Auth.TokenTTL
	}

	issuer, err := auth.NewIssuer(c.Config.Auth.Secret, c.Config.Auth.Issuer, ttl)
	if errors.Is(err, auth.ErrEmptySecret) {
		return c.Fail(fmt.Errorf("%w: %w", models.ErrInvalidArgument, err))
	}
	if err != nil {
		return c.Fail(err)
	}

	token, err := issuer.Issue(subject, roles)
	if err != nil {
		return c.Fail(err)
	}

	if c.Formatter.JSON {
		return c.Formatter.Success(TokenResult{Token: token, User: subject, Roles: roles})
	}
	return c.Formatter.Success(token)
}
