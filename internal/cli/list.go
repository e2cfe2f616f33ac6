package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/id"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

const formatText = "text"

func (a *app) showCommand() *cobra.Command {
	var format, shown string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the grocery list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseItemsShown(shown)
			if err != nil {
				return err
			}
			return a.run(func(injector *do.RootScope) error {
				view, err := do.MustInvoke[*service.ListService](injector).View(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if format == formatText {
					writeView(cmd.OutOrStdout(), view)
					return nil
				}
				return render(cmd.OutOrStdout(), format, view)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	cmd.Flags().StringVar(&shown, "shown", "both", "items to show: both, checked or unchecked")
	return cmd
}

// writeView prints the list the way the UI lays it out: categories in order,
// open ones followed by their items.
func writeView(w io.Writer, view *service.ListView) {
	if view.EmptyPhrase != "" {
		fmt.Fprintln(w, view.EmptyPhrase)
		return
	}
	for _, cv := range view.Categories {
		marker := "+"
		if cv.Category.IsOpen {
			marker = "-"
		}
		fmt.Fprintf(w, "[%s] %s  (%s)\n", marker, displayText(cv.Category.Text), cv.Category.CategoryID)
		if !cv.Category.IsOpen {
			continue
		}
		for _, item := range cv.Items {
			check := " "
			if item.IsChecked {
				check = "x"
			}
			line := fmt.Sprintf("    [%s] %s x%d", check, displayText(item.Text), item.Quantity)
			if item.QuantityUnit != "" {
				line += " " + item.QuantityUnit
			}
			if item.GoodPrice != "" {
				line += " @ " + item.GoodPrice
			}
			fmt.Fprintf(w, "%s  (%s)\n", line, item.ItemID)
		}
	}
}

func displayText(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}

func (a *app) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category or an item",
	}
	cmd.AddCommand(a.addCategoryCommand())
	cmd.AddCommand(a.addItemCommand())
	return cmd
}

func (a *app) addCategoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "category [text]",
		Short: "Add a category at the top of the list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, "")
			return a.run(func(injector *do.RootScope) error {
				session, err := do.MustInvoke[*service.SessionService](injector).Load(cmd.Context())
				if err != nil {
					return err
				}
				added, err := do.MustInvoke[*service.ListService](injector).
					CreateCategory(cmd.Context(), session.User.UserID, text, session.Prefs)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), added.Category.CategoryID)
				return nil
			})
		},
	}
}

func (a *app) addItemCommand() *cobra.Command {
	var quantity int
	var unit, price string

	cmd := &cobra.Command{
		Use:   "item <category-id> <text>",
		Short: "Add an item to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.run(func(injector *do.RootScope) error {
				list := do.MustInvoke[*service.ListService](injector)

				doc, err := list.Document(ctx)
				if err != nil {
					return err
				}
				idx := doc.CategoryIndex(args[0])
				if idx < 0 {
					return domainerrors.NotFoundf("category %s not found", args[0])
				}
				itemID, err := id.Generate()
				if err != nil {
					return err
				}

				item := domain.NewItem(doc.Categories[idx].Key(), itemID)
				item.Text = args[1]
				item.Quantity = quantity
				item.QuantityUnit = unit
				if price != "" {
					item.GoodPrice = price
				}
				// One write: a rejected item leaves neither a placeholder nor a tombstone.
				if err := list.InsertItem(ctx, item); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), item.ItemID)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", domain.MinQuantity, "quantity")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "quantity unit")
	cmd.Flags().StringVarP(&price, "price", "p", "", "good price")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <item-id>",
		Short: "Toggle an item's checked state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(injector *do.RootScope) error {
				item, err := do.MustInvoke[*service.ListService](injector).ToggleItemChecked(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				state := "unchecked"
				if item.IsChecked {
					state = "checked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", displayText(item.Text), state)
				return nil
			})
		},
	}
}

func (a *app) resetCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every category and item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New("reset removes the whole list; pass --force to confirm")
			}
			return a.run(func(injector *do.RootScope) error {
				return do.MustInvoke[*service.ListService](injector).Reset(cmd.Context())
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm the reset")
	return cmd
}
