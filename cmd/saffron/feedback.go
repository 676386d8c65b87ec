package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/saffron/internal/cli"
	"github.com/Veraticus/saffron/internal/engine"
	"github.com/Veraticus/saffron/internal/model"
)

func feedbackCmd() *cobra.Command {
	var (
		merchant     string
		mcc          string
		amount       string
		feedbackType string
	)

	cmd := &cobra.Command{
		Use:   "feedback [description] [feedback]",
		Short: "Correct or confirm a classification",
		Long: `Re-classify a transaction, then apply feedback to it. Corrections are
interpreted against the taxonomy and stored as a preference, so the same
merchant classifies your way from then on.

Examples:
  saffron feedback "STARBUCKS COFFEE #123" "this is a business expense" --type correction
  saffron feedback "NETFLIX.COM" "looks right" --type approval`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fbType := model.FeedbackType(feedbackType)
			switch fbType {
			case model.FeedbackApproval, model.FeedbackCorrection, model.FeedbackComment:
			default:
				return fmt.Errorf("invalid feedback type %q (want approval, correction, or comment)", feedbackType)
			}

			txn, err := parseTransaction(args[0], merchant, mcc, amount)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			reasoner := initReasoner()
			resolver := newResolver(store, reasoner)
			pre, result := resolver.Classify(ctx, txn)

			printClassification(pre, result)

			if fbType == model.FeedbackCorrection && reasoner == nil {
				return fmt.Errorf("corrections require a reasoning provider; set reasoning.api_key in the config")
			}

			recorder := engine.NewRecorder(store, store, reasoner, viper.GetDuration("reasoning.timeout"))
			outcome := recorder.RecordFeedback(ctx, txn, pre, result, args[1], fbType)

			fmt.Println()
			switch {
			case outcome.StoreFailure != "":
				fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("%s %s", cli.ErrorIcon, outcome.Note)))
			case outcome.Updated:
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s %s", cli.SuccessIcon, outcome.Note)))
			default:
				fmt.Println(cli.InfoStyle.Render(outcome.Note))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant name (derived from description if omitted)")
	cmd.Flags().StringVar(&mcc, "mcc", "", "merchant category code")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "transaction amount")
	cmd.Flags().StringVarP(&feedbackType, "type", "t", "correction", "feedback type (approval, correction, comment)")

	return cmd
}
