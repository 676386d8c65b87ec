package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Preference is a stored user correction linking a merchant/description
// pattern to the user's preferred category. Created on correction, mutated on
// repeated use, removed only by an explicit clear.
type Preference struct {
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	LastUsedAt          *time.Time
	Amount              *decimal.Decimal
	ID                  string // Deterministic key over (merchant, description prefix)
	MerchantName        string // Normalized, uppercase
	Description         string // Raw, as supplied at creation
	UserCategory        string
	UserSubcategory     string
	OriginalCategory    string // Pre-correction value, for audit
	OriginalSubcategory string
	UsageCount          int
}

// PreferenceMatch carries similarity metadata for a matched preference.
type PreferenceMatch struct {
	PreferenceID        string
	OriginalCategory    string
	OriginalSubcategory string
	SimilarityScore     float64
}
