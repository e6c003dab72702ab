package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userhub-cli/internal/apimock"
	"userhub-cli/internal/logging"

	"github.com/spf13/cobra"
)

func newMockServerCmd(app *App) *cobra.Command {
	var addr string
	var seed bool
	var level string
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve the in-memory user API (for demos and manual testing)",
		Example: `  userhub mock-server --seed
  userhub --api http://127.0.0.1:8080 users list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitWriter(cmd.ErrOrStderr(), logging.ParseLevel(level))
			defer logging.Close()

			mock := apimock.New()
			if seed {
				seedDemoUsers(mock)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveMock(ctx, cmd, addr, mock)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "Create demo users (user1..user5, password P4ssword) and one pending sign-up")
	cmd.Flags().StringVar(&level, "log-level", "info", "Log level (debug|info|warning|error)")
	return cmd
}

func seedDemoUsers(mock *apimock.Server) {
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("user%d", i)
		mock.Seed(name, name+"@mail.com", "P4ssword", true)
	}
	mock.Seed("pending", "pending@mail.com", "P4ssword", false)
	if tok, ok := mock.ActivationToken("pending@mail.com"); ok {
		logging.Infof("activation token for pending@mail.com: %s", tok)
	}
}

func serveMock(ctx context.Context, cmd *cobra.Command, addr string, mock *apimock.Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mock.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("mock API listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return writeErr(cmd, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return writeErr(cmd, err)
	}
	logging.Infof("mock API stopped")
	return nil
}
