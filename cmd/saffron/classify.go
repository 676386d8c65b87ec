package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/saffron/internal/cli"
	"github.com/Veraticus/saffron/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		merchant string
		mcc      string
		amount   string
	)

	cmd := &cobra.Command{
		Use:   "classify [description]",
		Short: "Classify a single transaction",
		Long: `Run one transaction through the classification chain and print the
category, confidence, and the method that decided it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			txn, err := parseTransaction(args[0], merchant, mcc, amount)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			resolver := newResolver(store, initReasoner())
			pre, result := resolver.Classify(ctx, txn)

			printClassification(pre, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant name (derived from description if omitted)")
	cmd.Flags().StringVar(&mcc, "mcc", "", "merchant category code")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "transaction amount")

	return cmd
}

func printClassification(pre model.PreprocessedTransaction, result *model.ClassificationResult) {
	fmt.Println(cli.TitleStyle.Render("Classification"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Merchant:\t%s\n", pre.CanonicalMerchant)
	fmt.Fprintf(w, "Category:\t%s / %s\n", result.Category, result.Subcategory)
	fmt.Fprintf(w, "Confidence:\t%s\n", cli.ConfidenceStyle(string(result.Confidence)).Render(string(result.Confidence)))
	fmt.Fprintf(w, "Method:\t%s\n", result.Method)
	if result.Match != nil {
		fmt.Fprintf(w, "Preference:\t%s (score %.2f)\n", result.Match.PreferenceID, result.Match.SimilarityScore)
	}
	fmt.Fprintf(w, "Reasoning:\t%s\n", cli.SubtleStyle.Render(result.Reasoning))
	_ = w.Flush()
}
