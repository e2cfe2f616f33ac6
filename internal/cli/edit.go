package cli

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (a *app) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change a category or an item",
	}
	cmd.AddCommand(a.editCategoryCommand())
	cmd.AddCommand(a.editItemCommand())
	return cmd
}

func (a *app) editCategoryCommand() *cobra.Command {
	var text string
	var open bool

	cmd := &cobra.Command{
		Use:   "category <category-id>",
		Short: "Rename, open or close a category",
		Args:  cobra.ExactArgs(1),
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

				category := doc.Categories[idx]
				if cmd.Flags().Changed("text") {
					category.Text = text
				}
				if cmd.Flags().Changed("open") {
					category.IsOpen = open
				}
				if err := list.UpdateCategory(ctx, category); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "new text")
	cmd.Flags().BoolVar(&open, "open", true, "expand (true) or collapse (false)")
	return cmd
}

func (a *app) editItemCommand() *cobra.Command {
	var text, unit, price string
	var quantity int
	var checked bool

	cmd := &cobra.Command{
		Use:   "item <item-id>",
		Short: "Change an item's text, quantity, unit, price or checked state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.run(func(injector *do.RootScope) error {
				list := do.MustInvoke[*service.ListService](injector)

				doc, err := list.Document(ctx)
				if err != nil {
					return err
				}
				idx := doc.ItemIndex(args[0])
				if idx < 0 {
					return domainerrors.NotFoundf("item %s not found", args[0])
				}

				item := doc.Items[idx]
				flags := cmd.Flags()
				if flags.Changed("text") {
					item.Text = text
				}
				if flags.Changed("quantity") {
					item.Quantity = quantity
				}
				if flags.Changed("unit") {
					item.QuantityUnit = unit
				}
				if flags.Changed("price") {
					item.GoodPrice = price
				}
				if flags.Changed("checked") {
					item.IsChecked = checked
				}
				if err := list.UpdateItem(ctx, item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "new text")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "quantity unit")
	cmd.Flags().StringVarP(&price, "price", "p", "", "good price")
	cmd.Flags().BoolVar(&checked, "checked", false, "checked state")
	return cmd
}
