package cli

import (
	"errors"
	"fmt"
	"time"

	"invoice_management/internal/adapter/http/middleware"

	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command, which signs a development bearer token.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		ownerID string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for an owner with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ownerID == "" {
				return errors.New("--owner is required")
			}
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			verifier, err := middleware.NewTokenVerifier(cfg.JWTSecret)
			if err != nil {
				return err
			}
			token, err := verifier.Sign(ownerID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
