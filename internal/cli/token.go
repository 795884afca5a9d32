package cli

import (
	"fmt"

	"codemcq-service/internal/auth"
	"codemcq-service/internal/config"
	"github.com/spf13/cobra"
)

// NewTokenCmd issues a bearer token for local development.
func NewTokenCmd(configPath *string) *cobra.Command {
	var ttl string
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a signed bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if ttl == "" {
				ttl = cfg.Auth.TokenTTL
			}
			issuer := auth.NewIssuer(cfg.Auth.Secret, config.TTLDuration(ttl, auth.DefaultTokenTTL))
			token, err := issuer.Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&ttl, "ttl", "", "token lifetime, e.g. 1h (defaults to auth.token_ttl)")
	return cmd
}
