package engine

import (
	"context"

	"github.com/Veraticus/saffron/internal/llm"
)

// MockReasoner is a test double for Reasoner and Interpreter with
// injectable behavior.
type MockReasoner struct {
	MatchCustomCategoryFunc func(ctx context.Context, req llm.Request, categories map[string][]string) (*llm.Selection, error)
	FallbackClassifyFunc    func(ctx context.Context, req llm.Request, taxonomy map[string][]string) (*llm.Selection, error)
	InterpretCorrectionFunc func(ctx context.Context, feedback string, taxonomy map[string][]string) (*llm.Selection, error)

	MatchCalls     int
	FallbackCalls  int
	InterpretCalls int
}

// MatchCustomCategory implements Reasoner.
func (m *MockReasoner) MatchCustomCategory(ctx context.Context, req llm.Request, categories map[string][]string) (*llm.Selection, error) {
	m.MatchCalls++
	if m.MatchCustomCategoryFunc != nil {
		return m.MatchCustomCategoryFunc(ctx, req, categories)
	}
	return &llm.Selection{}, nil
}

// FallbackClassify implements Reasoner.
func (m *MockReasoner) FallbackClassify(ctx context.Context, req llm.Request, taxonomy map[string][]string) (*llm.Selection, error) {
	m.FallbackCalls++
	if m.FallbackClassifyFunc != nil {
		return m.FallbackClassifyFunc(ctx, req, taxonomy)
	}
	return &llm.Selection{}, nil
}

// InterpretCorrection implements Interpreter.
func (m *MockReasoner) InterpretCorrection(ctx context.Context, feedback string, taxonomy map[string][]string) (*llm.Selection, error) {
	m.InterpretCalls++
	if m.InterpretCorrectionFunc != nil {
		return m.InterpretCorrectionFunc(ctx, feedback, taxonomy)
	}
	return &llm.Selection{}, nil
}
