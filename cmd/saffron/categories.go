package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/saffron/internal/cli"
	"github.com/Veraticus/saffron/internal/common"
	"github.com/Veraticus/saffron/internal/reference"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage custom classification categories",
		Long: `List, add, and remove user-defined categories. Custom categories are
checked before MCC and vendor lookups, right after stored preferences.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(removeCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			custom, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			if len(custom) == 0 {
				fmt.Println(cli.InfoStyle.Render("No custom categories. Use 'saffron categories add' to create one."))
			} else {
				fmt.Println(cli.TitleStyle.Render("Custom Categories"))
				names := make([]string, 0, len(custom))
				for name := range custom {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render(name), joinSubcategories(custom[name]))
				}
			}

			if all {
				fmt.Fprintln(w)
				fmt.Fprintln(w, cli.TitleStyle.Render("Built-in Taxonomy"))
				for _, name := range reference.Categories() {
					fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render(name), joinSubcategories(reference.Subcategories(name)))
				}
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include the built-in taxonomy")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [category] [subcategory...]",
		Short: "Add or replace a custom category",
		Long: `Add a custom category with one or more subcategories. Adding an existing
category replaces its subcategory list.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.AddCategory(ctx, args[0], args[1:]); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Category %q saved with %d subcategories", cli.SuccessIcon, args[0], len(args)-1)))
			return nil
		},
	}
}

func removeCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [category]",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.RemoveCategory(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("category %q does not exist", args[0])
				}
				return fmt.Errorf("failed to remove category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Category %q removed", cli.SuccessIcon, args[0])))
			return nil
		},
	}
}

func joinSubcategories(subs []string) string {
	if len(subs) == 0 {
		return cli.SubtleStyle.Render("(none)")
	}
	out := subs[0]
	for _, s := range subs[1:] {
		out += ", " + s
	}
	return out
}
