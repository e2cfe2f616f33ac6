package cli

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/di/providers"
	"github.com/grocerylistapp/grocerylist/internal/service"
	"github.com/grocerylistapp/grocerylist/internal/store"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarise what the local database holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func(injector *do.RootScope) error {
				ctx := cmd.Context()
				w := cmd.OutOrStdout()
				st := do.MustInvoke[*providers.StoreHandle](injector)

				entries, err := st.Entries(ctx)
				if err != nil {
					return err
				}
				doc, err := do.MustInvoke[*service.ListService](injector).Document(ctx)
				if err != nil {
					return err
				}
				deletedCategories, err := st.CountTombstones(ctx, store.TombstoneCategories)
				if err != nil {
					return err
				}
				deletedItems, err := st.CountTombstones(ctx, store.TombstoneItems)
				if err != nil {
					return err
				}
				session, err := do.MustInvoke[*service.SessionService](injector).Load(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintln(w, "=== Database Inspection ===")
				fmt.Fprintf(w, "Path: %s\n\n", a.cfg.Store.DataPath)
				for _, e := range entries {
					fmt.Fprintf(w, "  %-20s %6d bytes\n", e.Key, e.Size)
				}

				open, checked := 0, 0
				for _, c := range doc.Categories {
					if c.IsOpen {
						open++
					}
				}
				for _, it := range doc.Items {
					if it.IsChecked {
						checked++
					}
				}

				mode := "local only"
				if session.LoggedIn() {
					mode = "logged in"
				}

				fmt.Fprintln(w)
				fmt.Fprintln(w, "=== Summary ===")
				fmt.Fprintf(w, "Categories: %d (%d open)\n", len(doc.Categories), open)
				fmt.Fprintf(w, "Items: %d (%d checked)\n", len(doc.Items), checked)
				fmt.Fprintf(w, "Pending deletions: %d categories, %d items\n", deletedCategories, deletedItems)
				fmt.Fprintf(w, "Session: %s as %s\n", mode, session.User.Username)
				fmt.Fprintf(w, "Server: %s\n", session.BaseURL)
				return nil
			})
		},
	}
}
