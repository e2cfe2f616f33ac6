package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (a *app) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the list and pending deletions to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sync(cmd, (*service.SyncService).Push)
		},
	}
}

func (a *app) pullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local list with the backend's copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sync(cmd, (*service.SyncService).Pull)
		},
	}
}

func (a *app) sync(cmd *cobra.Command, action func(*service.SyncService, context.Context) (*service.SyncReport, error)) error {
	return a.run(func(injector *do.RootScope) error {
		report, err := action(do.MustInvoke[*service.SyncService](injector), cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Message)
		return nil
	})
}

func (a *app) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func(injector *do.RootScope) error {
				if do.MustInvoke[*service.SyncService](injector).CheckServer(cmd.Context()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Server is up")
					return nil
				}
				return fmt.Errorf("%s", service.MessageServerDown)
			})
		},
	}
}
