package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/saffron/internal/common"
)

// AddCategory registers a custom category with its ordered subcategories,
// replacing any existing definition of the same category wholesale.
func (s *SQLiteStorage) AddCategory(ctx context.Context, category string, subcategories []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}
	if len(subcategories) == 0 {
		return fmt.Errorf("%w: subcategories", ErrEmptySlice)
	}
	for i, sub := range subcategories {
		if err := validateString(sub, fmt.Sprintf("subcategory %d", i)); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_categories WHERE category = ?`, category); err != nil {
		return fmt.Errorf("failed to replace category: %w", err)
	}

	for position, sub := range subcategories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO custom_categories (category, subcategory, position)
			VALUES (?, ?, ?)
		`, category, sub, position); err != nil {
			return fmt.Errorf("failed to insert subcategory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category: %w", err)
	}
	return nil
}

// RemoveCategory deletes a custom category by name.
func (s *SQLiteStorage) RemoveCategory(ctx context.Context, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM custom_categories WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("failed to remove category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// GetCategories returns every custom category with its subcategories in
// registration order. The map is empty when no custom categories exist.
func (s *SQLiteStorage) GetCategories(ctx context.Context) (map[string][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, subcategory
		FROM custom_categories
		ORDER BY category, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := make(map[string][]string)
	for rows.Next() {
		var category, subcategory string
		if err := rows.Scan(&category, &subcategory); err != nil {
			return nil, fmt.Errorf("failed to scan custom category: %w", err)
		}
		categories[category] = append(categories[category], subcategory)
	}
	return categories, rows.Err()
}
