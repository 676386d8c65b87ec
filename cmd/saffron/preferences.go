package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/saffron/internal/cli"
)

func preferencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Manage stored classification preferences",
		Long:  `List or clear the preferences learned from your corrections.`,
	}

	cmd.AddCommand(listPreferencesCmd())
	cmd.AddCommand(clearPreferencesCmd())

	return cmd
}

func listPreferencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			prefs, err := store.ListPreferences(ctx)
			if err != nil {
				return fmt.Errorf("failed to list preferences: %w", err)
			}

			if len(prefs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No preferences stored yet. Corrections made with 'saffron feedback' appear here."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s Stored Preferences (%d)", cli.TagIcon, len(prefs))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("MERCHANT"),
				cli.BoldStyle.Render("CATEGORY"),
				cli.BoldStyle.Render("USES"),
				cli.BoldStyle.Render("LAST USED"),
				cli.BoldStyle.Render("ID"))

			for _, p := range prefs {
				fmt.Fprintf(w, "%s\t%s / %s\t%d\t%s\t%s\n",
					p.MerchantName,
					p.UserCategory, p.UserSubcategory,
					p.UsageCount,
					formatTimePtr(p.LastUsedAt),
					cli.SubtleStyle.Render(p.ID))
			}
			return w.Flush()
		},
	}
}

func clearPreferencesCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force {
				fmt.Print(cli.WarningStyle.Render("This deletes every learned preference. Continue? [y/N]: "))
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.ClearPreferences(ctx); err != nil {
				return fmt.Errorf("failed to clear preferences: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s All preferences cleared", cli.SuccessIcon)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
