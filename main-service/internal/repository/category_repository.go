package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/models"
)

// CategoryWriteRepository handles all state-mutating operations for categories.
type CategoryWriteRepository struct {
	db *sql.DB
}

func NewCategoryWriteRepository(db *sql.DB) *CategoryWriteRepository {
	return &CategoryWriteRepository{db: db}
}

func (r *CategoryWriteRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name,
	).Scan(&category.ID)
	if database.IsUniqueViolation(err) {
		return apperrors.Conflict("Category name %q is already in use", category.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryWriteRepository) Update(ctx context.Context, category *models.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, category.ID, category.Name,
	)
	if database.IsUniqueViolation(err) {
		return apperrors.Conflict("Category name %q is already in use", category.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Category with id=%d was not found", category.ID)
	}
	return nil
}

// Delete removes a category that no event references.
func (r *CategoryWriteRepository) Delete(ctx context.Context, id int64) error {
	var used bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE category_id = $1)`, id,
	).Scan(&used); err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if used {
		return apperrors.Conflict("The category is not empty")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return apperrors.Conflict("The category is not empty")
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Category with id=%d was not found", id)
	}
	return nil
}

func (r *CategoryWriteRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Category with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}
