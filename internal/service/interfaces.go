// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/saffron/internal/model"
)

// UpsertParams carries the fields of a preference upsert. The store derives
// the preference id from the merchant name and description prefix.
type UpsertParams struct {
	Amount              *decimal.Decimal
	MerchantName        string
	Description         string
	UserCategory        string
	UserSubcategory     string
	OriginalCategory    string
	OriginalSubcategory string
}

// PreferenceStore defines the contract for persisted user corrections with
// similarity-based retrieval.
//
// FindBestMatch is a read-through mutation: a successful match increments the
// preference's usage count and stamps last_used_at before returning.
type PreferenceStore interface {
	UpsertPreference(ctx context.Context, params UpsertParams) (*model.Preference, error)
	FindBestMatch(ctx context.Context, merchantName, description string, threshold float64) (*model.Preference, float64, error)
	ListPreferences(ctx context.Context) ([]model.Preference, error)
	ClearPreferences(ctx context.Context) error
}

// CategoryStore defines the contract for user-defined custom categories.
type CategoryStore interface {
	AddCategory(ctx context.Context, category string, subcategories []string) error
	RemoveCategory(ctx context.Context, category string) error
	GetCategories(ctx context.Context) (map[string][]string, error)
}

// Storage is the full persistence contract with an explicit lifecycle.
type Storage interface {
	PreferenceStore
	CategoryStore
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
