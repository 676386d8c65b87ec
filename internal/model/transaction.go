// Package model defines the core domain models used throughout the application.
package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType is a heuristic classification of transaction intent.
type TransactionType string

const (
	// TypePurchase is the default transaction type.
	TypePurchase TransactionType = "purchase"
	// TypeRefund indicates a refund or return.
	TypeRefund TransactionType = "refund"
	// TypeSubscription indicates a recurring charge.
	TypeSubscription TransactionType = "subscription"
)

// Transaction represents a single raw financial transaction to classify.
// It is ephemeral; the classification core never persists it.
type Transaction struct {
	Description  string          // Raw transaction description (required)
	MerchantName string          // Optional caller-supplied merchant name
	MCCCode      string          // Optional 4-digit merchant category code
	Amount       decimal.Decimal // Transaction amount
}

// PreprocessedTransaction is the deterministic output of the preprocessing
// pipeline, owned by the caller.
type PreprocessedTransaction struct {
	CanonicalMerchant   string          // Resolved brand name (uppercase)
	CanonicalMerchantID string          // 16-hex-char digest of CanonicalMerchant
	CleanedDescription  string          // Description with noise patterns stripped
	NormalizedText      string          // Normalized form used for matching
	Location            string          // 2-letter region code, empty if none detected
	Type                TransactionType // Heuristic intent classification
	Tokens              []string        // Uppercase tokens, order preserved
}
