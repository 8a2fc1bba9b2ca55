package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pet-care-manager/internal/adapters/auth/jwtauth"
	"pet-care-manager/internal/ports/auth"
)

type TokenOptions struct {
	*RootOptions
	UserID int64
	Email  string
	Type   string
	TTL    time.Duration
}

// NewTokenCommand emite un JWT firmado con auth.jwt.secret. Pensado para
// desarrollo con AUTH_MODE=jwt.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT",
		Long: `Firma un token HS256 con el secreto configurado.

Example:
  AUTH_JWT_SECRET=0123456789abcdef petcare token --user 7 --type Tutor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			typ, ok := auth.ParseUserType(opts.Type)
			if !ok {
				return fmt.Errorf("invalid user type %q: must be Tutor or Veterinário", opts.Type)
			}
			if opts.UserID <= 0 {
				return fmt.Errorf("--user must be positive")
			}

			v, err := jwtauth.NewVerifier(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
			if err != nil {
				return err
			}
			tok, err := v.Sign(auth.Claims{
				UserID: opts.UserID,
				Email:  opts.Email,
				Type:   typ,
				Role:   "user",
			}, opts.TTL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "user id (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&opts.Type, "type", string(auth.UserTypeTutor), "user type (Tutor|Veterinário)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
