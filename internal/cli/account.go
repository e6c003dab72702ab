package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the account locally",
		Example: strings.TrimSpace(`
  userhub login --email user1@mail.com --password P4ssword
  USERHUB_PASSWORD=P4ssword userhub login --email user1@mail.com
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("USERHUB_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return writeErr(cmd, errors.New("missing --email or --password (or USERHUB_PASSWORD)"))
			}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				u, err := s.client.Login(ctx, api.Credentials{Email: strings.TrimSpace(email), Password: password})
				if err != nil {
					return err
				}
				if err := s.auth.Update(auth.Full(auth.State(u))); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": s.auth.Get()})
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set USERHUB_PASSWORD)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				if err := s.auth.Logout(); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedIn": false}})
			})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				st := s.auth.Get()
				if !st.LoggedIn() {
					return writeOut(cmd, app, map[string]any{
						"data":   nil,
						"_hints": []string{"userhub login --email <email>"},
					})
				}
				return writeOut(cmd, app, map[string]any{
					"data": st,
					"meta": map[string]any{"imageUrl": s.auth.ImageURL(st.Image), "lang": s.loc.Locale()},
				})
			})
		},
	}
}

func newSignUpCmd(app *App) *cobra.Command {
	var req api.SignUpRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account (activation link is sent by e-mail)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("USERHUB_PASSWORD")
			}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				msg, err := s.client.SignUp(ctx, req)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"data":   msg,
					"_hints": []string{"userhub activate <token>"},
				})
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Username (4-32 characters)")
	cmd.Flags().StringVar(&req.Email, "email", "", "E-mail")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (or set USERHUB_PASSWORD)")
	return cmd
}

func newActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <token>",
		Short: "Activate an account with the token from the e-mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				msg, err := s.client.Activate(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": msg})
			})
		},
	}
}
