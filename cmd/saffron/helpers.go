package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/saffron/internal/config"
	"github.com/Veraticus/saffron/internal/engine"
	"github.com/Veraticus/saffron/internal/llm"
	"github.com/Veraticus/saffron/internal/model"
	"github.com/Veraticus/saffron/internal/preprocess"
	"github.com/Veraticus/saffron/internal/service"
	"github.com/Veraticus/saffron/internal/storage"
)

// initStorage opens the preference database and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initReasoner creates the reasoning client when an API key is configured.
// A missing key is not an error; the classification chain simply skips the
// reasoning steps.
func initReasoner() llm.Client {
	apiKey := viper.GetString("reasoning.api_key")
	if apiKey == "" {
		return nil
	}

	client, err := llm.NewClient(llm.Config{
		Provider:  viper.GetString("reasoning.provider"),
		Model:     viper.GetString("reasoning.model"),
		APIKey:    apiKey,
		MaxTokens: viper.GetInt64("reasoning.max_tokens"),
	})
	if err != nil {
		return nil
	}
	return client
}

// newResolver wires the classification chain from configuration.
func newResolver(store service.Storage, reasoner llm.Client) *engine.Resolver {
	cfg := engine.DefaultConfig()
	if threshold := viper.GetFloat64("classification.similarity_threshold"); threshold > 0 {
		cfg.SimilarityThreshold = threshold
	}
	if timeout := viper.GetDuration("reasoning.timeout"); timeout > 0 {
		cfg.ReasoningTimeout = timeout
	}

	var r engine.Reasoner
	if reasoner != nil {
		r = reasoner
	}

	aliasPath := config.ExpandPath(viper.GetString("classification.alias_file"))
	preprocessor := preprocess.New(nil, newCanonicalizer(aliasPath))

	return engine.NewResolver(store, store, r, preprocessor, cfg)
}

// newCanonicalizer loads merchant aliases from a file when configured,
// otherwise uses the built-in table.
func newCanonicalizer(path string) *preprocess.Canonicalizer {
	if path == "" {
		return preprocess.NewCanonicalizer(preprocess.DefaultAliases())
	}
	aliases, err := preprocess.LoadAliases(path)
	if err != nil {
		return preprocess.NewCanonicalizer(preprocess.DefaultAliases())
	}
	return preprocess.NewCanonicalizer(aliases)
}

// parseTransaction builds a transaction from CLI inputs.
func parseTransaction(description, merchant, mcc, amount string) (model.Transaction, error) {
	txn := model.Transaction{
		Description:  description,
		MerchantName: merchant,
		MCCCode:      mcc,
	}

	if amount != "" {
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		txn.Amount = amt
	}

	return txn, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
