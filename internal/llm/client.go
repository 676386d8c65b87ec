// Package llm provides the external reasoning service used by the two
// non-deterministic steps of the priority chain (custom-category matching and
// taxonomy fallback) and by feedback interpretation. The service is treated
// as an opaque, possibly-slow, possibly-failing collaborator; callers impose
// timeouts and recover from errors by advancing the chain.
package llm

import (
	"context"

	"github.com/shopspring/decimal"
)

// Request describes the transaction being reasoned about.
type Request struct {
	MerchantName string
	Description  string
	Amount       decimal.Decimal
}

// Selection is a structured category decision decoded from the reasoning
// service's free-form response. Every field is optional-with-default upstream;
// an empty Category means no match.
type Selection struct {
	Category    string
	Subcategory string
	Confidence  string // "high", "medium" or "low"; empty when unstated
	Reasoning   string
}

// Matched reports whether the selection names a category.
func (s *Selection) Matched() bool {
	return s != nil && s.Category != ""
}

// Client defines the reasoning operations the classification core consumes.
type Client interface {
	// MatchCustomCategory decides whether the transaction fits one of the
	// user-defined categories. A nil selection means no match.
	MatchCustomCategory(ctx context.Context, req Request, categories map[string][]string) (*Selection, error)

	// FallbackClassify produces a best-effort placement in the default
	// taxonomy when every deterministic step has missed.
	FallbackClassify(ctx context.Context, req Request, taxonomy map[string][]string) (*Selection, error)

	// InterpretCorrection extracts the corrected category pair from
	// free-text user feedback. A nil selection means the feedback names no
	// usable correction.
	InterpretCorrection(ctx context.Context, feedback string, taxonomy map[string][]string) (*Selection, error)
}

// Config holds provider configuration for the reasoning client.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	MaxTokens int64
}
