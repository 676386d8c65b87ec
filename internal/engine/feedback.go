package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/saffron/internal/model"
	"github.com/Veraticus/saffron/internal/reference"
	"github.com/Veraticus/saffron/internal/service"
)

// Recorder applies user feedback to a classification and, for corrections,
// stores the result as a preference so future similar transactions follow it.
type Recorder struct {
	preferences service.PreferenceStore
	categories  service.CategoryStore
	interpreter Interpreter
	timeout     time.Duration
}

// NewRecorder creates a feedback recorder. The category store may be nil when
// no custom categories exist.
func NewRecorder(preferences service.PreferenceStore, categories service.CategoryStore, interpreter Interpreter, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Recorder{
		preferences: preferences,
		categories:  categories,
		interpreter: interpreter,
		timeout:     timeout,
	}
}

// RecordFeedback processes one piece of feedback against a classification.
// Approvals and comments never mutate the classification. Corrections
// interpret the feedback, upsert a preference keyed by the transaction's
// merchant and description, and report a before/after diff. Persistence
// failures are reported in the outcome (Stored=false with a reason), distinct
// from interpretation finding no change (Updated=false); the method itself
// never fails.
func (r *Recorder) RecordFeedback(ctx context.Context, txn model.Transaction, pre model.PreprocessedTransaction, result *model.ClassificationResult, feedbackText string, feedbackType model.FeedbackType) *model.FeedbackOutcome {
	before := model.CategoryPair{Category: result.Category, Subcategory: result.Subcategory}
	outcome := &model.FeedbackOutcome{Before: before, After: before}

	switch feedbackType {
	case model.FeedbackApproval:
		outcome.Note = "Classification approved by user; no changes made."
		return outcome
	case model.FeedbackComment:
		outcome.Note = fmt.Sprintf("Comment recorded without changes: %s", feedbackText)
		return outcome
	case model.FeedbackCorrection:
		// Fall through to interpretation below.
	default:
		outcome.Note = fmt.Sprintf("Unknown feedback type %q ignored.", feedbackType)
		return outcome
	}

	corrected, note := r.interpret(ctx, feedbackText)
	if corrected == nil {
		outcome.Note = note
		return outcome
	}

	if *corrected == before {
		outcome.Note = "Feedback matches the current classification; nothing to change."
		return outcome
	}

	outcome.Updated = true
	outcome.After = *corrected

	pref, err := r.preferences.UpsertPreference(ctx, service.UpsertParams{
		MerchantName:        pre.CanonicalMerchant,
		Description:         txn.Description,
		UserCategory:        corrected.Category,
		UserSubcategory:     corrected.Subcategory,
		OriginalCategory:    before.Category,
		OriginalSubcategory: before.Subcategory,
		Amount:              &txn.Amount,
	})
	if err != nil {
		slog.Error("Failed to persist correction", "merchant", pre.CanonicalMerchant, "error", err)
		outcome.StoreFailure = fmt.Sprintf("preference not saved: %v", err)
		outcome.Note = fmt.Sprintf("Corrected %s/%s to %s/%s, but the preference could not be saved.",
			before.Category, before.Subcategory, corrected.Category, corrected.Subcategory)
		return outcome
	}

	outcome.Stored = true
	outcome.PreferenceID = pref.ID
	outcome.Note = fmt.Sprintf("Corrected %s/%s to %s/%s; preference %s stored for future transactions.",
		before.Category, before.Subcategory, corrected.Category, corrected.Subcategory, pref.ID)
	return outcome
}

// interpret maps free-text feedback to a category pair from the default
// taxonomy merged with any registered custom categories.
func (r *Recorder) interpret(ctx context.Context, feedbackText string) (*model.CategoryPair, string) {
	if r.interpreter == nil {
		return nil, "No feedback interpreter configured; correction ignored."
	}

	taxonomy := reference.Taxonomy()
	if r.categories != nil {
		custom, err := r.categories.GetCategories(ctx)
		if err != nil {
			slog.Warn("Custom category load failed during feedback interpretation", "error", err)
		}
		for category, subs := range custom {
			taxonomy[category] = subs
		}
	}

	interpretCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sel, err := r.interpreter.InterpretCorrection(interpretCtx, feedbackText, taxonomy)
	if err != nil {
		slog.Warn("Feedback interpretation failed", "error", err)
		return nil, fmt.Sprintf("Feedback could not be interpreted: %v", err)
	}
	if !sel.Matched() || sel.Subcategory == "" {
		return nil, "Feedback did not name a usable correction; no changes made."
	}

	return &model.CategoryPair{Category: sel.Category, Subcategory: sel.Subcategory}, ""
}
