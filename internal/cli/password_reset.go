package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newPasswordResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Password reset",
	}

	var email string
	request := &cobra.Command{
		Use:   "request",
		Short: "Ask the server to e-mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				msg, err := s.client.RequestPasswordReset(ctx, strings.TrimSpace(email))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": msg})
			})
		},
	}
	request.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.AddCommand(request)
	return cmd
}
