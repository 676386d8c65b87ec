package model

import "fmt"

// Confidence expresses how much trust to place in a classification.
type Confidence string

const (
	// ConfidenceHigh is assigned to preference, custom-category, MCC and
	// exact vendor matches.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium is assigned to substring vendor matches and strong
	// taxonomy fallbacks.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow is assigned to weak fallbacks and the final default.
	ConfidenceLow Confidence = "low"
)

// Valid reports whether the confidence is one of the known levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// Method identifies which step of the priority chain produced a result.
type Method string

const (
	// MethodUserPreference means a stored user correction matched.
	MethodUserPreference Method = "user_preference"
	// MethodCustomCategory means the reasoning service matched a
	// user-defined category.
	MethodCustomCategory Method = "custom_category"
	// MethodMCCLookup means the supplied MCC code resolved in the MCC table.
	MethodMCCLookup Method = "mcc_lookup"
	// MethodVendorLookup means the merchant matched a known vendor exactly.
	MethodVendorLookup Method = "vendor_lookup"
	// MethodVendorSearch means the merchant matched a known vendor by substring.
	MethodVendorSearch Method = "vendor_search"
	// MethodTaxonomyFallback means generic reasoning over the default taxonomy.
	MethodTaxonomyFallback Method = "taxonomy_fallback"
)

// ClassificationResult is the outcome of running the priority chain.
type ClassificationResult struct {
	Match       *PreferenceMatch // Set when Method is MethodUserPreference
	Category    string
	Subcategory string
	Reasoning   string // Names the method/tool that produced the result
	Confidence  Confidence
	Method      Method
}

// Validate ensures a classification result is internally consistent.
func (r *ClassificationResult) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("classification missing category")
	}
	if r.Subcategory == "" {
		return fmt.Errorf("classification missing subcategory")
	}
	if !r.Confidence.Valid() {
		return fmt.Errorf("invalid confidence level: %q", r.Confidence)
	}
	if r.Reasoning == "" {
		return fmt.Errorf("classification missing reasoning")
	}
	return nil
}

// FeedbackType distinguishes the kinds of user feedback.
type FeedbackType string

const (
	// FeedbackApproval confirms the classification; nothing changes.
	FeedbackApproval FeedbackType = "approval"
	// FeedbackCorrection replaces the category pair and records a preference.
	FeedbackCorrection FeedbackType = "correction"
	// FeedbackComment is an annotation; nothing changes.
	FeedbackComment FeedbackType = "comment"
)

// CategoryPair is a category/subcategory tuple.
type CategoryPair struct {
	Category    string
	Subcategory string
}

// FeedbackOutcome reports what a piece of feedback did.
type FeedbackOutcome struct {
	Before       CategoryPair
	After        CategoryPair
	Note         string // Human-readable audit note
	StoreFailure string // Reason persistence failed, empty on success
	PreferenceID string // Set when a preference was stored
	Updated      bool   // Classification changed
	Stored       bool   // Preference durably saved
}
