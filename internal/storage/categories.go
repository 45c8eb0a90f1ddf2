package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/google/uuid"
)

// CreateCategory persists a new category and returns its id.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if category == nil {
		return "", fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateString(category.OwnerID, "ownerID"); err != nil {
		return "", err
	}
	if err := validateString(category.Name, "name"); err != nil {
		return "", err
	}

	id := category.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := category.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, category.OwnerID, category.Name, category.Color, createdAt)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert category: %v", common.ErrStoreUnavailable, err)
	}

	return id, nil
}

// GetCategories returns all of an owner's categories sorted by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, color, created_at
		FROM categories
		WHERE owner_id = ?
		ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query categories: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var (
			cat   model.Category
			color sql.NullString
		)
		if err := rows.Scan(&cat.ID, &cat.OwnerID, &cat.Name, &color, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Color = color.String
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategoryByID returns one category, or ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, ownerID, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		cat   model.Category
		color sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, color, created_at
		FROM categories
		WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&cat.ID, &cat.OwnerID, &cat.Name, &color, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query category: %v", common.ErrStoreUnavailable, err)
	}
	cat.Color = color.String
	return &cat, nil
}

// DeleteCategory removes a category. Existing transactions keep their
// category reference; clients render unknown references as "Unknown".
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete category: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	return nil
}
