package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Veraticus/saffron/internal/common"
)

func TestAddCategory_AndGet(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AddCategory(ctx, "Hobbies", []string{"Photography", "Climbing"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if err := store.AddCategory(ctx, "Pets", []string{"Vet", "Food"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if want := []string{"Photography", "Climbing"}; !reflect.DeepEqual(categories["Hobbies"], want) {
		t.Errorf("Hobbies = %v, want %v (order preserved)", categories["Hobbies"], want)
	}
}

func TestAddCategory_ReplacesSubcategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AddCategory(ctx, "Hobbies", []string{"Photography"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if err := store.AddCategory(ctx, "Hobbies", []string{"Climbing", "Skiing"}); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if want := []string{"Climbing", "Skiing"}; !reflect.DeepEqual(categories["Hobbies"], want) {
		t.Errorf("Hobbies = %v, want %v", categories["Hobbies"], want)
	}
}

func TestAddCategory_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AddCategory(ctx, "", []string{"Sub"}); err == nil {
		t.Error("expected error for empty category")
	}
	if err := store.AddCategory(ctx, "Hobbies", nil); err == nil {
		t.Error("expected error for empty subcategory list")
	}
}

func TestRemoveCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AddCategory(ctx, "Hobbies", []string{"Photography"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if err := store.RemoveCategory(ctx, "Hobbies"); err != nil {
		t.Fatalf("RemoveCategory failed: %v", err)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("expected no categories, got %v", categories)
	}
}

func TestRemoveCategory_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.RemoveCategory(context.Background(), "Nope")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCategories_Empty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	categories, err := store.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("expected empty map, got %v", categories)
	}
}
