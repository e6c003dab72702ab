package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newLangCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or persist the UI language",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the active language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return writeOut(cmd, app, map[string]any{
					"data": s.loc.Locale(),
					"meta": map[string]any{"supported": s.loc.Supported()},
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Persist the language used by the TUI and sent as Accept-Language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				if !supported(s.loc, args[0]) {
					return errUnsupportedLocale(args[0], s.loc.Supported())
				}
				if err := s.loc.SetLocale(args[0]); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": s.loc.Locale()})
			})
		},
	})

	return cmd
}
