// Package engine implements the priority-ordered classification resolver and
// the feedback recorder that closes the learning loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/saffron/internal/llm"
	"github.com/Veraticus/saffron/internal/model"
	"github.com/Veraticus/saffron/internal/preprocess"
	"github.com/Veraticus/saffron/internal/reference"
	"github.com/Veraticus/saffron/internal/service"
	"github.com/Veraticus/saffron/internal/storage"
)

// Config holds tuning options for the resolver.
type Config struct {
	SimilarityThreshold float64
	ReasoningTimeout    time.Duration
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: storage.DefaultSimilarityThreshold,
		ReasoningTimeout:    30 * time.Second,
	}
}

// Resolver classifies transactions by running the priority chain: user
// preference, custom categories, MCC lookup, vendor lookup, taxonomy
// fallback. Each step short-circuits on a confident hit; a failing
// collaborator is logged and the chain advances.
type Resolver struct {
	preferences  service.PreferenceStore
	categories   service.CategoryStore
	reasoner     Reasoner
	preprocessor *preprocess.Preprocessor
	config       Config
}

// NewResolver creates a resolver with the given dependencies. A nil
// preprocessor uses the defaults.
func NewResolver(preferences service.PreferenceStore, categories service.CategoryStore, reasoner Reasoner, preprocessor *preprocess.Preprocessor, config Config) *Resolver {
	if preprocessor == nil {
		preprocessor = preprocess.New(nil, nil)
	}
	if config.SimilarityThreshold <= 0 {
		config.SimilarityThreshold = storage.DefaultSimilarityThreshold
	}
	if config.ReasoningTimeout <= 0 {
		config.ReasoningTimeout = DefaultConfig().ReasoningTimeout
	}
	return &Resolver{
		preferences:  preferences,
		categories:   categories,
		reasoner:     reasoner,
		preprocessor: preprocessor,
		config:       config,
	}
}

// Classify preprocesses a raw transaction and runs the priority chain. It
// always produces a result; total exhaustion of the chain yields the
// Other/General default with low confidence rather than an error.
func (r *Resolver) Classify(ctx context.Context, txn model.Transaction) (model.PreprocessedTransaction, *model.ClassificationResult) {
	pre := r.preprocessor.Preprocess(txn)

	req := llm.Request{
		MerchantName: pre.CanonicalMerchant,
		Description:  pre.CleanedDescription,
		Amount:       txn.Amount,
	}

	steps := []func(context.Context, model.Transaction, model.PreprocessedTransaction, llm.Request) *model.ClassificationResult{
		r.matchPreference,
		r.matchCustomCategory,
		r.lookupMCC,
		r.lookupVendor,
		r.fallback,
	}

	for _, step := range steps {
		if result := step(ctx, txn, pre, req); result != nil {
			slog.Info("Transaction classified",
				"merchant", pre.CanonicalMerchant,
				"merchant_id", pre.CanonicalMerchantID,
				"category", result.Category,
				"subcategory", result.Subcategory,
				"confidence", result.Confidence,
				"method", result.Method)
			return pre, result
		}
	}

	return pre, &model.ClassificationResult{
		Category:    "Other",
		Subcategory: "General",
		Confidence:  model.ConfidenceLow,
		Method:      model.MethodTaxonomyFallback,
		Reasoning:   "All classification methods were exhausted; defaulted to Other/General.",
	}
}

// matchPreference checks the preference store for a prior user correction.
func (r *Resolver) matchPreference(ctx context.Context, _ model.Transaction, pre model.PreprocessedTransaction, _ llm.Request) *model.ClassificationResult {
	pref, score, err := r.preferences.FindBestMatch(ctx, pre.CanonicalMerchant, pre.CleanedDescription, r.config.SimilarityThreshold)
	if err != nil {
		slog.Error("Preference lookup failed, continuing chain", "error", err)
		return nil
	}
	if pref == nil {
		return nil
	}

	return &model.ClassificationResult{
		Category:    pref.UserCategory,
		Subcategory: pref.UserSubcategory,
		Confidence:  model.ConfidenceHigh,
		Method:      model.MethodUserPreference,
		Reasoning: fmt.Sprintf(
			"Matched stored user preference %s via similarity search (score %.2f); previously corrected from %s/%s.",
			pref.ID, score, orUnset(pref.OriginalCategory), orUnset(pref.OriginalSubcategory)),
		Match: &model.PreferenceMatch{
			PreferenceID:        pref.ID,
			SimilarityScore:     score,
			OriginalCategory:    pref.OriginalCategory,
			OriginalSubcategory: pref.OriginalSubcategory,
		},
	}
}

// matchCustomCategory consults the reasoning service against user-defined
// categories. The selection must name a registered category/subcategory pair.
func (r *Resolver) matchCustomCategory(ctx context.Context, _ model.Transaction, _ model.PreprocessedTransaction, req llm.Request) *model.ClassificationResult {
	if r.categories == nil || r.reasoner == nil {
		return nil
	}

	categories, err := r.categories.GetCategories(ctx)
	if err != nil {
		slog.Error("Custom category load failed, continuing chain", "error", err)
		return nil
	}
	if len(categories) == 0 {
		return nil
	}

	reasonCtx, cancel := context.WithTimeout(ctx, r.config.ReasoningTimeout)
	defer cancel()

	sel, err := r.reasoner.MatchCustomCategory(reasonCtx, req, categories)
	if err != nil {
		slog.Warn("Custom category matching failed, continuing chain", "error", err)
		return nil
	}
	if !sel.Matched() {
		return nil
	}
	if !containsPair(categories, sel.Category, sel.Subcategory) {
		slog.Warn("Reasoner selected unregistered custom category, continuing chain",
			"category", sel.Category, "subcategory", sel.Subcategory)
		return nil
	}

	return &model.ClassificationResult{
		Category:    sel.Category,
		Subcategory: sel.Subcategory,
		Confidence:  model.ConfidenceHigh,
		Method:      model.MethodCustomCategory,
		Reasoning:   fmt.Sprintf("Matched user-defined custom category via reasoning service: %s", sel.Reasoning),
	}
}

// lookupMCC resolves a supplied MCC code against the MCC table.
func (r *Resolver) lookupMCC(_ context.Context, txn model.Transaction, _ model.PreprocessedTransaction, _ llm.Request) *model.ClassificationResult {
	if txn.MCCCode == "" {
		return nil
	}

	code := reference.NormalizeMCC(txn.MCCCode)
	if !reference.ValidMCC(code) {
		slog.Warn("Ignoring malformed MCC code", "mcc_code", txn.MCCCode)
		return nil
	}

	entry, ok := reference.LookupMCC(code)
	if !ok {
		return nil
	}

	return &model.ClassificationResult{
		Category:    entry.Category,
		Subcategory: entry.Subcategory,
		Confidence:  model.ConfidenceHigh,
		Method:      model.MethodMCCLookup,
		Reasoning:   fmt.Sprintf("MCC lookup: code %s is %q.", code, entry.Description),
	}
}

// lookupVendor resolves the canonical merchant against the vendor table,
// exact match first, then substring search.
func (r *Resolver) lookupVendor(_ context.Context, _ model.Transaction, pre model.PreprocessedTransaction, _ llm.Request) *model.ClassificationResult {
	if match, ok := reference.LookupVendor(pre.CanonicalMerchant); ok {
		return &model.ClassificationResult{
			Category:    match.Entry.Category,
			Subcategory: match.Entry.Subcategory,
			Confidence:  model.ConfidenceHigh,
			Method:      model.MethodVendorLookup,
			Reasoning:   fmt.Sprintf("Vendor lookup: %s is a known vendor (MCC %s, %q).", match.Vendor, match.MCCCode, match.Entry.Description),
		}
	}

	if match, ok := reference.SearchVendor(pre.CanonicalMerchant); ok {
		return &model.ClassificationResult{
			Category:    match.Entry.Category,
			Subcategory: match.Entry.Subcategory,
			Confidence:  model.ConfidenceMedium,
			Method:      model.MethodVendorSearch,
			Reasoning:   fmt.Sprintf("Vendor search: merchant partially matched known vendor %s (MCC %s).", match.Vendor, match.MCCCode),
		}
	}

	return nil
}

// fallback asks the reasoning service for a best-effort taxonomy placement.
func (r *Resolver) fallback(ctx context.Context, _ model.Transaction, _ model.PreprocessedTransaction, req llm.Request) *model.ClassificationResult {
	if r.reasoner == nil {
		return nil
	}

	reasonCtx, cancel := context.WithTimeout(ctx, r.config.ReasoningTimeout)
	defer cancel()

	sel, err := r.reasoner.FallbackClassify(reasonCtx, req, reference.Taxonomy())
	if err != nil {
		slog.Warn("Taxonomy fallback failed, using default", "error", err)
		return nil
	}
	if !sel.Matched() || !reference.InTaxonomy(sel.Category, sel.Subcategory) {
		return nil
	}

	confidence := model.ConfidenceLow
	if sel.Confidence == string(model.ConfidenceMedium) {
		confidence = model.ConfidenceMedium
	}

	return &model.ClassificationResult{
		Category:    sel.Category,
		Subcategory: sel.Subcategory,
		Confidence:  confidence,
		Method:      model.MethodTaxonomyFallback,
		Reasoning:   fmt.Sprintf("Taxonomy fallback via reasoning service: %s", sel.Reasoning),
	}
}

// containsPair reports whether the category map holds the exact pair.
func containsPair(categories map[string][]string, category, subcategory string) bool {
	for _, sub := range categories[category] {
		if sub == subcategory {
			return true
		}
	}
	return false
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
