package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/saffron/internal/cli"
	"github.com/Veraticus/saffron/internal/model"
)

func batchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "batch [file.csv]",
		Short: "Classify transactions from a CSV file",
		Long: `Classify every row of a CSV file. The file must have a header row with a
"description" column; "merchant", "mcc", and "amount" columns are optional.
Results are written as CSV with category, subcategory, confidence, and
method columns appended.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer func() { _ = f.Close() }()

			transactions, err := readTransactionsCSV(f)
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found in input."))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			resolver := newResolver(store, initReasoner())

			out := os.Stdout
			if output != "" {
				out, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer func() { _ = out.Close() }()
			}

			bar := progressbar.NewOptions(len(transactions),
				progressbar.OptionSetDescription("Classifying"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)

			writer := csv.NewWriter(out)
			if err := writer.Write([]string{"description", "merchant", "mcc", "amount", "category", "subcategory", "confidence", "method"}); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			for _, txn := range transactions {
				if err := ctx.Err(); err != nil {
					return err
				}

				pre, result := resolver.Classify(ctx, txn)
				record := []string{
					txn.Description,
					pre.CanonicalMerchant,
					txn.MCCCode,
					txn.Amount.StringFixed(2),
					result.Category,
					result.Subcategory,
					string(result.Confidence),
					string(result.Method),
				}
				if err := writer.Write(record); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				_ = bar.Add(1)
			}

			writer.Flush()
			if err := writer.Error(); err != nil {
				return fmt.Errorf("failed to flush output: %w", err)
			}

			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, cli.SuccessStyle.Render(fmt.Sprintf("%s Classified %d transactions", cli.SuccessIcon, len(transactions))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// readTransactionsCSV parses a header-led CSV into transactions.
func readTransactionsCSV(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	descIdx, ok := columns["description"]
	if !ok {
		return nil, fmt.Errorf("CSV is missing required column %q", "description")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var transactions []model.Transaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if descIdx >= len(record) || strings.TrimSpace(record[descIdx]) == "" {
			continue
		}

		txn, err := parseTransaction(
			strings.TrimSpace(record[descIdx]),
			field(record, "merchant"),
			field(record, "mcc"),
			field(record, "amount"),
		)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		transactions = append(transactions, txn)
	}

	return transactions, nil
}
