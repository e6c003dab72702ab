package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and manage user accounts",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowCmd(app))
	cmd.AddCommand(newUsersUpdateCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active users (paginated)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 0 {
				return writeErr(cmd, errors.New("--page must be >= 0"))
			}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				n := size
				if n <= 0 {
					n = s.cfg.PageSize()
				}
				res, err := s.client.ListUsers(ctx, page, n)
				if err != nil {
					return err
				}
				users := res.Content
				if users == nil {
					users = []api.User{}
				}
				out := map[string]any{
					"data": users,
					"meta": map[string]any{"page": res.Page, "size": res.Size, "totalPages": res.TotalPages},
				}
				if res.Page+1 < res.TotalPages {
					out["_hints"] = []string{"userhub users list --page " + strconv.Itoa(res.Page+1)}
				}
				return writeOut(cmd, app, out)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (default: tui.pageSize from config, 3)")
	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				u, err := s.client.GetUser(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"data": u,
					"meta": map[string]any{"imageUrl": s.auth.ImageURL(u.Image), "self": s.auth.IsSelf(args[0])},
				})
			})
		},
	}
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	var username, imagePath string
	cmd := &cobra.Command{
		Use:   "update [user-id]",
		Short: "Update your username and/or profile image",
		Example: strings.TrimSpace(`
  userhub users update --username user1-updated
  userhub users update --image ./avatar.png
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				id, err := ownedUserID(s.auth, args)
				if err != nil {
					return err
				}
				req := api.UpdateUserRequest{Username: strings.TrimSpace(username)}
				if req.Username == "" {
					req.Username = s.auth.Get().Username
				}
				if imagePath != "" {
					if req.Image, err = api.ReadImage(imagePath); err != nil {
						return err
					}
				}
				res, err := s.client.UpdateUser(ctx, id, req)
				if err != nil {
					return err
				}
				patch := auth.Patch{Username: &req.Username}
				if res.Username != "" {
					patch.Username = &res.Username
				}
				if res.Image != nil {
					patch.Image = res.Image
				}
				if err := s.auth.Update(patch); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": s.auth.Get()})
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "New username (default: keep the current one)")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a png/jpeg file (max 2 MB)")
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete your account and log out",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				id, err := ownedUserID(s.auth, args)
				if err != nil {
					return err
				}
				if err := s.client.DeleteUser(ctx, id); err != nil {
					return err
				}
				if err := s.auth.Logout(); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id, "loggedIn": false}})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

// ownedUserID resolves the optional id argument to the logged-in user's id.
// Only the account owner may modify an account.
func ownedUserID(st *auth.Store, args []string) (string, error) {
	cur := st.Get()
	if !cur.LoggedIn() {
		return "", errNotLoggedIn()
	}
	if len(args) == 0 {
		return strconv.FormatInt(cur.ID, 10), nil
	}
	id := strings.TrimSpace(args[0])
	if !st.IsSelf(id) {
		return "", errOwnerOnly(cur.ID, id)
	}
	return id, nil
}
