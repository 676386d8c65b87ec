package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/saffron/internal/model"
	"github.com/Veraticus/saffron/internal/service"
)

// DefaultSimilarityThreshold is the minimum combined similarity a stored
// preference must reach to be considered a match.
const DefaultSimilarityThreshold = 0.6

// descriptionKeyLength bounds the description prefix used in preference keys.
const descriptionKeyLength = 50

// PreferenceID derives the deterministic preference key from the normalized
// merchant name and the first 50 characters of the normalized description.
func PreferenceID(merchantName, description string) string {
	merchant := strings.ToUpper(strings.TrimSpace(merchantName))
	desc := strings.ToUpper(strings.TrimSpace(description))
	if len(desc) > descriptionKeyLength {
		desc = desc[:descriptionKeyLength]
	}
	sum := sha256.Sum256([]byte(merchant + ":" + desc))
	return fmt.Sprintf("%x", sum)[:16]
}

// UpsertPreference stores a user correction, overwriting any existing
// preference with the same (merchant, description-prefix) key. An overwrite
// replaces the category pair, audit fields, and amount, stamps updated_at,
// and preserves usage_count and created_at.
func (s *SQLiteStorage) UpsertPreference(ctx context.Context, params service.UpsertParams) (*model.Preference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(params.MerchantName, "merchantName"); err != nil {
		return nil, err
	}
	if err := validateString(params.Description, "description"); err != nil {
		return nil, err
	}
	if err := validateString(params.UserCategory, "userCategory"); err != nil {
		return nil, err
	}
	if err := validateString(params.UserSubcategory, "userSubcategory"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := PreferenceID(params.MerchantName, params.Description)
	merchant := strings.ToUpper(strings.TrimSpace(params.MerchantName))
	now := time.Now().UTC()

	var amount sql.NullString
	if params.Amount != nil {
		amount = sql.NullString{String: params.Amount.String(), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (
			id, merchant_name, description, user_category, user_subcategory,
			original_category, original_subcategory, amount, usage_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_category = excluded.user_category,
			user_subcategory = excluded.user_subcategory,
			original_category = excluded.original_category,
			original_subcategory = excluded.original_subcategory,
			amount = excluded.amount,
			updated_at = excluded.created_at
	`, id, merchant, params.Description, params.UserCategory, params.UserSubcategory,
		nullString(params.OriginalCategory), nullString(params.OriginalSubcategory), amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}

	pref, err := getPreferenceTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit preference: %w", err)
	}
	return pref, nil
}

// FindBestMatch scans all stored preferences and returns the single
// highest-scoring candidate at or above the threshold, or nil when nothing
// qualifies. Ties break toward the first-stored preference. A successful
// match increments the preference's usage count and stamps last_used_at
// before returning; callers must be aware the lookup mutates the store.
func (s *SQLiteStorage) FindBestMatch(ctx context.Context, merchantName, description string, threshold float64) (*model.Preference, float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.listPreferences(ctx)
	if err != nil {
		return nil, 0, err
	}

	var best *model.Preference
	var bestScore float64
	for i := range prefs {
		score := Similarity(merchantName, description, prefs[i].MerchantName, prefs[i].Description)
		if score >= threshold && score > bestScore {
			best = &prefs[i]
			bestScore = score
		}
	}

	if best == nil {
		return nil, 0, nil
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		UPDATE preferences
		SET usage_count = usage_count + 1, last_used_at = ?
		WHERE id = ?
	`, now, best.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to record preference use: %w", err)
	}

	best.UsageCount++
	best.LastUsedAt = &now
	return best, bestScore, nil
}

// ListPreferences returns all stored preferences in insertion order.
func (s *SQLiteStorage) ListPreferences(ctx context.Context) ([]model.Preference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPreferences(ctx)
}

// ClearPreferences removes every stored preference.
func (s *SQLiteStorage) ClearPreferences(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences`); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) listPreferences(ctx context.Context) ([]model.Preference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant_name, description, user_category, user_subcategory,
		       original_category, original_subcategory, amount, usage_count,
		       created_at, updated_at, last_used_at
		FROM preferences
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []model.Preference
	for rows.Next() {
		pref, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, *pref)
	}
	return prefs, rows.Err()
}

func getPreferenceTx(ctx context.Context, tx *sql.Tx, id string) (*model.Preference, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, merchant_name, description, user_category, user_subcategory,
		       original_category, original_subcategory, amount, usage_count,
		       created_at, updated_at, last_used_at
		FROM preferences
		WHERE id = ?
	`, id)
	return scanPreference(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreference(row rowScanner) (*model.Preference, error) {
	var pref model.Preference
	var originalCategory, originalSubcategory, amount sql.NullString
	var updatedAt, lastUsedAt sql.NullTime

	err := row.Scan(
		&pref.ID,
		&pref.MerchantName,
		&pref.Description,
		&pref.UserCategory,
		&pref.UserSubcategory,
		&originalCategory,
		&originalSubcategory,
		&amount,
		&pref.UsageCount,
		&pref.CreatedAt,
		&updatedAt,
		&lastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan preference: %w", err)
	}

	pref.OriginalCategory = originalCategory.String
	pref.OriginalSubcategory = originalSubcategory.String
	if amount.Valid {
		value, err := decimal.NewFromString(amount.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount.String, err)
		}
		pref.Amount = &value
	}
	if updatedAt.Valid {
		pref.UpdatedAt = &updatedAt.Time
	}
	if lastUsedAt.Valid {
		pref.LastUsedAt = &lastUsedAt.Time
	}
	return &pref, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
