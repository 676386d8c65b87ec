package engine

import (
	"context"

	"github.com/Veraticus/saffron/internal/llm"
)

// Reasoner is the narrow reasoning capability the resolver depends on. The
// production implementation is llm.Client; tests inject a deterministic mock.
type Reasoner interface {
	MatchCustomCategory(ctx context.Context, req llm.Request, categories map[string][]string) (*llm.Selection, error)
	FallbackClassify(ctx context.Context, req llm.Request, taxonomy map[string][]string) (*llm.Selection, error)
}

// Interpreter extracts a corrected category pair from free-text feedback.
type Interpreter interface {
	InterpretCorrection(ctx context.Context, feedback string, taxonomy map[string][]string) (*llm.Selection, error)
}
