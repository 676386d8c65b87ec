package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/saffron/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func starbucksParams() service.UpsertParams {
	amount := decimal.NewFromFloat(5.75)
	return service.UpsertParams{
		MerchantName:        "STARBUCKS",
		Description:         "STARBUCKS COFFEE SEATTLE",
		UserCategory:        "Business",
		UserSubcategory:     "Meals",
		OriginalCategory:    "Food & Dining",
		OriginalSubcategory: "Coffee Shop",
		Amount:              &amount,
	}
}

func TestPreferenceID_Deterministic(t *testing.T) {
	id1 := PreferenceID("STARBUCKS", "COFFEE PURCHASE")
	id2 := PreferenceID("starbucks", "coffee purchase")
	if id1 != id2 {
		t.Error("PreferenceID should be case-insensitive")
	}

	long := "COFFEE PURCHASE WITH A VERY LONG TRAILING DESCRIPTION THAT EXCEEDS THE KEY PREFIX"
	if PreferenceID("STARBUCKS", long) != PreferenceID("STARBUCKS", long[:descriptionKeyLength]) {
		t.Error("PreferenceID should only consider the description prefix")
	}

	if PreferenceID("STARBUCKS", "A") == PreferenceID("STARBUCKS", "B") {
		t.Error("different descriptions should produce different ids")
	}
}

func TestUpsertPreference_CreateAndRead(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	pref, err := store.UpsertPreference(ctx, starbucksParams())
	if err != nil {
		t.Fatalf("UpsertPreference failed: %v", err)
	}

	if pref.ID != PreferenceID("STARBUCKS", "STARBUCKS COFFEE SEATTLE") {
		t.Errorf("unexpected id %q", pref.ID)
	}
	if pref.MerchantName != "STARBUCKS" {
		t.Errorf("MerchantName = %q", pref.MerchantName)
	}
	if pref.UserCategory != "Business" || pref.UserSubcategory != "Meals" {
		t.Errorf("category pair = %q/%q", pref.UserCategory, pref.UserSubcategory)
	}
	if pref.OriginalCategory != "Food & Dining" {
		t.Errorf("OriginalCategory = %q", pref.OriginalCategory)
	}
	if pref.UsageCount != 0 {
		t.Errorf("new preference UsageCount = %d, want 0", pref.UsageCount)
	}
	if pref.Amount == nil || !pref.Amount.Equal(decimal.NewFromFloat(5.75)) {
		t.Errorf("Amount = %v, want 5.75", pref.Amount)
	}
	if pref.UpdatedAt != nil {
		t.Error("new preference should not have UpdatedAt set")
	}
}

func TestUpsertPreference_OverwritePreservesUsage(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.UpsertPreference(ctx, starbucksParams())
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Bump the usage count through a match.
	if _, _, err := store.FindBestMatch(ctx, "STARBUCKS", "STARBUCKS COFFEE SEATTLE", 0.6); err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}

	params := starbucksParams()
	params.UserCategory = "Personal"
	params.UserSubcategory = "Coffee"
	second, err := store.UpsertPreference(ctx, params)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("overwrite changed the id: %q vs %q", second.ID, first.ID)
	}
	if second.UserCategory != "Personal" || second.UserSubcategory != "Coffee" {
		t.Errorf("category pair not overwritten: %q/%q", second.UserCategory, second.UserSubcategory)
	}
	if second.UsageCount != 1 {
		t.Errorf("overwrite should preserve usage count, got %d", second.UsageCount)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("overwrite should preserve created_at")
	}
	if second.UpdatedAt == nil {
		t.Error("overwrite should stamp updated_at")
	}

	prefs, err := store.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences failed: %v", err)
	}
	if len(prefs) != 1 {
		t.Errorf("expected 1 preference after overwrite, got %d", len(prefs))
	}
}

func TestUpsertPreference_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate func(*service.UpsertParams)
		name   string
	}{
		{name: "empty merchant", mutate: func(p *service.UpsertParams) { p.MerchantName = "" }},
		{name: "empty description", mutate: func(p *service.UpsertParams) { p.Description = "" }},
		{name: "empty category", mutate: func(p *service.UpsertParams) { p.UserCategory = "" }},
		{name: "empty subcategory", mutate: func(p *service.UpsertParams) { p.UserSubcategory = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := starbucksParams()
			tt.mutate(&params)
			if _, err := store.UpsertPreference(ctx, params); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFindBestMatch_SelectsHighestScore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.UpsertPreference(ctx, service.UpsertParams{
		MerchantName:    "UBER",
		Description:     "UBER TRIP AIRPORT",
		UserCategory:    "Travel",
		UserSubcategory: "Rideshare",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := store.UpsertPreference(ctx, service.UpsertParams{
		MerchantName:    "UBER EATS",
		Description:     "UBER EATS DELIVERY",
		UserCategory:    "Food & Dining",
		UserSubcategory: "Fast Food",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	pref, score, err := store.FindBestMatch(ctx, "UBER", "UBER TRIP AIRPORT", 0.6)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref == nil {
		t.Fatal("expected a match")
	}
	if pref.UserCategory != "Travel" {
		t.Errorf("matched wrong preference: %q", pref.UserCategory)
	}
	if score != 1.0 {
		t.Errorf("score = %v, want 1.0", score)
	}
}

func TestFindBestMatch_RecordsUsage(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.UpsertPreference(ctx, starbucksParams()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	pref, _, err := store.FindBestMatch(ctx, "STARBUCKS", "STARBUCKS COFFEE SEATTLE", 0.6)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref.UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", pref.UsageCount)
	}
	if pref.LastUsedAt == nil {
		t.Error("LastUsedAt should be stamped on match")
	}

	pref, _, err = store.FindBestMatch(ctx, "STARBUCKS", "STARBUCKS COFFEE SEATTLE", 0.6)
	if err != nil {
		t.Fatalf("second FindBestMatch failed: %v", err)
	}
	if pref.UsageCount != 2 {
		t.Errorf("UsageCount after second match = %d, want 2", pref.UsageCount)
	}
}

func TestFindBestMatch_NoMatchBelowThreshold(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.UpsertPreference(ctx, starbucksParams()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	pref, score, err := store.FindBestMatch(ctx, "NETFLIX", "MONTHLY PLAN", 0.6)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref != nil {
		t.Errorf("expected no match, got %+v (score %v)", pref, score)
	}

	// A miss must not touch usage counts.
	prefs, err := store.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences failed: %v", err)
	}
	if prefs[0].UsageCount != 0 {
		t.Errorf("miss mutated usage count: %d", prefs[0].UsageCount)
	}
}

func TestFindBestMatch_ThresholdBoundary(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Construct a candidate that scores exactly 0.6 against the query:
	// substring merchant (0.8) and 2-of-15 description overlap.
	if _, err := store.UpsertPreference(ctx, service.UpsertParams{
		MerchantName:    "STARBUCKS",
		Description:     "W0 W1 W2 W3 W4 W5 W6 W7 W8 W9",
		UserCategory:    "Business",
		UserSubcategory: "Meals",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	query := "W0 W1 Q1 Q2 Q3 Q4 Q5"

	pref, score, err := store.FindBestMatch(ctx, "STARBUCKS COFFEE", query, 0.6)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref == nil {
		t.Fatal("a candidate scoring exactly the threshold must match")
	}
	if score != 0.6 {
		t.Errorf("score = %v, want exactly 0.6", score)
	}

	pref, _, err = store.FindBestMatch(ctx, "STARBUCKS COFFEE", query, 0.601)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref != nil {
		t.Error("a candidate scoring below the threshold must not match")
	}
}

func TestFindBestMatch_EmptyStore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	pref, _, err := store.FindBestMatch(context.Background(), "UBER", "TRIP", 0.6)
	if err != nil {
		t.Fatalf("FindBestMatch failed: %v", err)
	}
	if pref != nil {
		t.Errorf("expected nil on empty store, got %+v", pref)
	}
}

func TestPreferences_PersistAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "persist.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if _, err := store.UpsertPreference(ctx, starbucksParams()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("re-migrate failed: %v", err)
	}

	prefs, err := reopened.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences failed: %v", err)
	}
	if len(prefs) != 1 || prefs[0].UserCategory != "Business" {
		t.Errorf("preference did not survive reopen: %+v", prefs)
	}
}

func TestClearPreferences(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.UpsertPreference(ctx, starbucksParams()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.ClearPreferences(ctx); err != nil {
		t.Fatalf("ClearPreferences failed: %v", err)
	}

	prefs, err := store.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences failed: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("expected empty store, got %d preferences", len(prefs))
	}
}
