package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	sharedredis "github.com/explorewithme/ewm/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const categoryViewKeyPrefix = "category:view:"

// CategoryReadRepository serves category reads. A single category is looked
// up in Redis first and warmed from PostgreSQL on a miss; lists always come
// from PostgreSQL.
type CategoryReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.CategoryDto]
}

// NewCategoryReadRepository accepts a nil Redis client, in which case every
// read goes to PostgreSQL.
func NewCategoryReadRepository(db *sql.DB, redisClient *goredis.Client) *CategoryReadRepository {
	return &CategoryReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.CategoryDto](redisClient, categoryViewKeyPrefix, 0),
	}
}

func (r *CategoryReadRepository) GetByID(ctx context.Context, id int64) (*models.CategoryDto, error) {
	key := strconv.FormatInt(id, 10)
	if view, ok := r.cache.Get(ctx, key); ok {
		return view, nil
	}

	var view models.CategoryDto
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&view.ID, &view.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Category with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	r.cache.Set(ctx, key, &view)
	return &view, nil
}

func (r *CategoryReadRepository) List(ctx context.Context, page cqrs.Page) ([]models.CategoryDto, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`, page.Size, page.From,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	views := []models.CategoryDto{}
	for rows.Next() {
		var view models.CategoryDto
		if err := rows.Scan(&view.ID, &view.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// CacheCategoryView refreshes the cached view after a mutation.
func (r *CategoryReadRepository) CacheCategoryView(ctx context.Context, view *models.CategoryDto) {
	r.cache.Set(ctx, strconv.FormatInt(view.ID, 10), view)
}

func (r *CategoryReadRepository) InvalidateCategoryView(ctx context.Context, id int64) {
	r.cache.Delete(ctx, strconv.FormatInt(id, 10))
}
