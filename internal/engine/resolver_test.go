package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/saffron/internal/llm"
	"github.com/Veraticus/saffron/internal/model"
	"github.com/Veraticus/saffron/internal/service"
	"github.com/Veraticus/saffron/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResolver_PreferenceBeatsEverything(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.UpsertPreference(ctx, service.UpsertParams{
		MerchantName:        "STARBUCKS",
		Description:         "STARBUCKS COFFEE",
		UserCategory:        "Business",
		UserSubcategory:     "Meals",
		OriginalCategory:    "Food & Dining",
		OriginalSubcategory: "Restaurant",
	})
	require.NoError(t, err)

	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	// The MCC code alone would classify this as Food & Dining; the stored
	// preference must win.
	_, result := resolver.Classify(ctx, model.Transaction{
		Description: "STARBUCKS COFFEE #12345",
		MCCCode:     "5812",
	})

	assert.Equal(t, model.MethodUserPreference, result.Method)
	assert.Equal(t, "Business", result.Category)
	assert.Equal(t, "Meals", result.Subcategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	require.NotNil(t, result.Match)
	assert.Equal(t, "Food & Dining", result.Match.OriginalCategory)
	assert.GreaterOrEqual(t, result.Match.SimilarityScore, 0.6)
	require.NoError(t, result.Validate())
}

func TestResolver_CustomCategoryMatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.AddCategory(ctx, "Home Lab", []string{"Hardware", "Subscriptions"}))

	mock := &MockReasoner{
		MatchCustomCategoryFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
			return &llm.Selection{
				Category:    "Home Lab",
				Subcategory: "Hardware",
				Reasoning:   "Single-board computer purchase.",
			}, nil
		},
	}

	resolver := NewResolver(store, store, mock, nil, DefaultConfig())

	_, result := resolver.Classify(ctx, model.Transaction{
		Description: "RASPBERRY PI STORE ORDER",
		Amount:      decimal.NewFromFloat(84.99),
	})

	assert.Equal(t, model.MethodCustomCategory, result.Method)
	assert.Equal(t, "Home Lab", result.Category)
	assert.Equal(t, "Hardware", result.Subcategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	assert.Equal(t, 1, mock.MatchCalls)
}

func TestResolver_UnregisteredCustomCategoryRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.AddCategory(ctx, "Home Lab", []string{"Hardware"}))

	mock := &MockReasoner{
		MatchCustomCategoryFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
			return &llm.Selection{Category: "Home Lab", Subcategory: "Invented"}, nil
		},
	}

	resolver := NewResolver(store, store, mock, nil, DefaultConfig())

	// The fabricated subcategory is rejected and the chain falls through to
	// the MCC lookup.
	_, result := resolver.Classify(ctx, model.Transaction{
		Description: "RASPBERRY PI STORE ORDER",
		MCCCode:     "5812",
	})

	assert.Equal(t, model.MethodMCCLookup, result.Method)
	assert.Equal(t, "Food & Dining", result.Category)
}

func TestResolver_SkipsCustomCategoriesWhenNoneExist(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	mock := &MockReasoner{}
	resolver := NewResolver(store, store, mock, nil, DefaultConfig())

	resolver.Classify(ctx, model.Transaction{Description: "SOMETHING", MCCCode: "5812"})

	assert.Zero(t, mock.MatchCalls, "reasoner should not be consulted without custom categories")
}

func TestResolver_MCCLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	tests := []struct {
		name            string
		mcc             string
		wantMethod      model.Method
		wantCategory    string
		wantSubcategory string
	}{
		{
			name:            "restaurant code",
			mcc:             "5812",
			wantMethod:      model.MethodMCCLookup,
			wantCategory:    "Food & Dining",
			wantSubcategory: "Restaurant",
		},
		{
			name:            "grocery code",
			mcc:             "5411",
			wantMethod:      model.MethodMCCLookup,
			wantCategory:    "Food & Dining",
			wantSubcategory: "Grocery",
		},
		{
			name:            "code with separators",
			mcc:             "58-12",
			wantMethod:      model.MethodMCCLookup,
			wantCategory:    "Food & Dining",
			wantSubcategory: "Restaurant",
		},
		{
			name:         "malformed code falls through",
			mcc:          "58A2",
			wantMethod:   model.MethodTaxonomyFallback,
			wantCategory: "Other",
		},
		{
			name:         "unknown code falls through",
			mcc:          "0000",
			wantMethod:   model.MethodTaxonomyFallback,
			wantCategory: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := resolver.Classify(ctx, model.Transaction{
				Description: "QQXVZ PLOMB",
				MCCCode:     tt.mcc,
			})
			assert.Equal(t, tt.wantMethod, result.Method)
			assert.Equal(t, tt.wantCategory, result.Category)
			if tt.wantSubcategory != "" {
				assert.Equal(t, tt.wantSubcategory, result.Subcategory)
			}
		})
	}
}

func TestResolver_VendorLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	// Exact vendor name: high confidence.
	_, result := resolver.Classify(ctx, model.Transaction{
		Description:  "MONTHLY STREAMING CHARGE",
		MerchantName: "NETFLIX",
	})
	assert.Equal(t, model.MethodVendorLookup, result.Method)
	assert.Equal(t, "Entertainment", result.Category)
	assert.Equal(t, "Streaming", result.Subcategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)

	// Partial vendor name: medium confidence via substring search.
	_, result = resolver.Classify(ctx, model.Transaction{
		Description:  "MONTHLY STREAMING CHARGE",
		MerchantName: "NETFLIX COM BILLING",
	})
	assert.Equal(t, model.MethodVendorSearch, result.Method)
	assert.Equal(t, "Entertainment", result.Category)
	assert.Equal(t, model.ConfidenceMedium, result.Confidence)
}

func TestResolver_TaxonomyFallback(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	t.Run("valid selection", func(t *testing.T) {
		mock := &MockReasoner{
			FallbackClassifyFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
				return &llm.Selection{
					Category:    "Healthcare",
					Subcategory: "Pharmacy",
					Confidence:  "medium",
					Reasoning:   "Prescription pickup.",
				}, nil
			},
		}
		resolver := NewResolver(store, store, mock, nil, DefaultConfig())

		_, result := resolver.Classify(ctx, model.Transaction{Description: "QQXVZ PLOMB"})
		assert.Equal(t, model.MethodTaxonomyFallback, result.Method)
		assert.Equal(t, "Healthcare", result.Category)
		assert.Equal(t, model.ConfidenceMedium, result.Confidence)
	})

	t.Run("selection outside taxonomy defaults", func(t *testing.T) {
		mock := &MockReasoner{
			FallbackClassifyFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
				return &llm.Selection{Category: "Invented", Subcategory: "Nope"}, nil
			},
		}
		resolver := NewResolver(store, store, mock, nil, DefaultConfig())

		_, result := resolver.Classify(ctx, model.Transaction{Description: "QQXVZ PLOMB"})
		assert.Equal(t, "Other", result.Category)
		assert.Equal(t, "General", result.Subcategory)
		assert.Equal(t, model.ConfidenceLow, result.Confidence)
	})

	t.Run("reasoner failure defaults", func(t *testing.T) {
		mock := &MockReasoner{
			FallbackClassifyFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
				return nil, errors.New("service unavailable")
			},
		}
		resolver := NewResolver(store, store, mock, nil, DefaultConfig())

		_, result := resolver.Classify(ctx, model.Transaction{Description: "QQXVZ PLOMB"})
		assert.Equal(t, "Other", result.Category)
		assert.Equal(t, model.ConfidenceLow, result.Confidence)
		require.NoError(t, result.Validate())
	})
}

func TestResolver_ReasonerErrorAdvancesChain(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.AddCategory(ctx, "Home Lab", []string{"Hardware"}))

	mock := &MockReasoner{
		MatchCustomCategoryFunc: func(_ context.Context, _ llm.Request, _ map[string][]string) (*llm.Selection, error) {
			return nil, errors.New("timeout")
		},
	}

	resolver := NewResolver(store, store, mock, nil, DefaultConfig())

	_, result := resolver.Classify(ctx, model.Transaction{
		Description: "SOMETHING",
		MCCCode:     "5812",
	})

	assert.Equal(t, model.MethodMCCLookup, result.Method)
	assert.Equal(t, 1, mock.MatchCalls)
}

func TestResolver_EndToEndWithMCC(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	pre, result := resolver.Classify(ctx, model.Transaction{
		Description: "STARBUCKS COFFEE #12345 PURCHASE 08/15",
		Amount:      decimal.NewFromFloat(5.50),
		MCCCode:     "5812",
	})

	assert.Equal(t, "STARBUCKS", pre.CanonicalMerchant)
	assert.NotContains(t, pre.CleanedDescription, "#12345")

	// Empty preference store, no custom categories: the supplied MCC code
	// decides before the vendor table is consulted.
	assert.Equal(t, model.MethodMCCLookup, result.Method)
	assert.Equal(t, "Food & Dining", result.Category)
	assert.Equal(t, "Restaurant", result.Subcategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	require.NoError(t, result.Validate())
}

func TestResolver_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	pre, result := resolver.Classify(ctx, model.Transaction{
		Description: "STARBUCKS COFFEE #12345",
		Amount:      decimal.NewFromFloat(5.75),
	})

	assert.Equal(t, "STARBUCKS", pre.CanonicalMerchant)
	assert.Equal(t, "STARBUCKS COFFEE", pre.CleanedDescription)

	// No MCC was supplied; the canonical merchant resolves through the
	// vendor table instead.
	assert.Equal(t, model.MethodVendorLookup, result.Method)
	assert.Equal(t, "Food & Dining", result.Category)
	assert.Equal(t, "Restaurant", result.Subcategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	require.NoError(t, result.Validate())
}

func TestResolver_ChainExhaustionDefault(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	resolver := NewResolver(store, store, nil, nil, DefaultConfig())

	_, result := resolver.Classify(ctx, model.Transaction{Description: "QQXVZ PLOMB"})

	assert.Equal(t, "Other", result.Category)
	assert.Equal(t, "General", result.Subcategory)
	assert.Equal(t, model.ConfidenceLow, result.Confidence)
	assert.Equal(t, model.MethodTaxonomyFallback, result.Method)
	require.NoError(t, result.Validate())
}
