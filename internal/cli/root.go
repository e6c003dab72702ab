package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"
	"userhub-cli/internal/format"
	"userhub-cli/internal/locale"
	"userhub-cli/internal/logging"
	"userhub-cli/internal/store"
	"userhub-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL     string
	ConfigDir  string
	Lang       string
	PrettyJSON bool
	Format     string
	StartPath  string
}

// session is the api/auth/locale stack one command runs against.
type session struct {
	cfg    *store.Config
	kv     *store.KV
	loc    *locale.Localizer
	auth   *auth.Store
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "userhub",
		Short:        "User account client (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  userhub

  # Open the TUI on a profile page
  userhub --route /user/1

  # Scriptable commands
  userhub login --email user1@mail.com
  userhub users list --page 0

  # Serve the in-memory API for demos
  userhub mock-server --seed
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if dir := strings.TrimSpace(app.ConfigDir); dir != "" {
			return os.Setenv("USERHUB_CONFIG_DIR", dir)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "API base URL (overrides apiBaseUrl and USERHUB_API_URL)")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Config/storage dir (default: ~/.userhub or USERHUB_CONFIG_DIR)")
	cmd.PersistentFlags().StringVar(&app.Lang, "lang", envOr("USERHUB_LANG", ""), "Locale for this run only (en|pl); use `lang set` to persist")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("USERHUB_FORMAT", "json"), "Output format (json|edn)")
	cmd.Flags().StringVar(&app.StartPath, "route", "/", "Route the TUI opens on")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newSignUpCmd(app))
	cmd.AddCommand(newActivateCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newPasswordResetCmd(app))
	cmd.AddCommand(newLangCmd(app))
	cmd.AddCommand(newMockServerCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.close()
	return tui.Run(tui.Options{
		Client:    s.client,
		Auth:      s.auth,
		Locale:    s.loc,
		Config:    s.cfg,
		StartPath: app.StartPath,
	})
}

// openSession loads config, opens local storage and builds the client.
// Flags win over environment, which wins over config.json.
func openSession(ctx context.Context, app *App) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(app.APIURL); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}

	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(dir, logging.ParseLevel(cfg.LogLevel)); err != nil {
		return nil, err
	}

	path, err := store.KVPath()
	if err != nil {
		logging.Close()
		return nil, err
	}
	kv, err := store.OpenKV(ctx, path)
	if err != nil {
		logging.Close()
		return nil, err
	}

	s := &session{cfg: cfg, kv: kv}
	s.loc, err = locale.NewFromEnv(kv)
	if err != nil {
		s.close()
		return nil, err
	}
	if app.Lang != "" {
		if !supported(s.loc, app.Lang) {
			s.close()
			return nil, errUnsupportedLocale(app.Lang, s.loc.Supported())
		}
		s.loc.Use(app.Lang)
	}
	s.auth = auth.Load(kv, auth.WithImagePaths(cfg.DefaultImage, cfg.ImagesPath))
	s.client = api.New(cfg.APIBaseURL, s.loc,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithRateLimit(cfg.RateLimitPerSecond),
	)
	logging.Debugf("session api=%s lang=%s", cfg.APIBaseURL, s.loc.Locale())
	return s, nil
}

func (s *session) close() {
	if s.kv != nil {
		_ = s.kv.Close()
	}
	logging.Close()
}

// withSession runs fn against a fresh session and reports its error on stderr.
func withSession(cmd *cobra.Command, app *App, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.close()
	if err := fn(cmd.Context(), s); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func supported(loc *locale.Localizer, code string) bool {
	code = locale.Normalize(code)
	for _, c := range loc.Supported() {
		if c == code {
			return true
		}
	}
	return false
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
