package cli

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (a *app) loginCommand() *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func(injector *do.RootScope) error {
				session, err := do.MustInvoke[*service.SessionService](injector).Login(cmd.Context(), creds)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.User.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func(injector *do.RootScope) error {
				return do.MustInvoke[*service.SessionService](injector).Logout(cmd.Context())
			})
		},
	}
}

// sessionInfo is what whoami prints. The token never leaves the store.
type sessionInfo struct {
	LoggedIn bool             `json:"logged_in"`
	User     *domain.User     `json:"user"`
	Prefs    domain.UserPrefs `json:"prefs"`
	BaseURL  string           `json:"base_url"`
}

func (a *app) whoamiCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatYAML {
				return errors.New("format must be json or yaml")
			}
			return a.run(func(injector *do.RootScope) error {
				session, err := do.MustInvoke[*service.SessionService](injector).Load(cmd.Context())
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), format, sessionInfo{
					LoggedIn: session.LoggedIn(),
					User:     session.User,
					Prefs:    session.Prefs,
					BaseURL:  session.BaseURL,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: json or yaml")
	return cmd
}
