package query

import (
	"context"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*models.CategoryDto, error)
	List(ctx context.Context, page cqrs.Page) ([]models.CategoryDto, error)
}

type CategoryQueryService struct {
	readRepo CategoryReader
}

func NewCategoryQueryService(readRepo CategoryReader) *CategoryQueryService {
	return &CategoryQueryService{readRepo: readRepo}
}

func (s *CategoryQueryService) ListCategories(ctx context.Context, q cqrs.ListCategoriesQuery) ([]models.CategoryDto, error) {
	return s.readRepo.List(ctx, q.Page)
}

func (s *CategoryQueryService) GetCategory(ctx context.Context, q cqrs.GetCategoryQuery) (*models.CategoryDto, error) {
	return s.readRepo.GetByID(ctx, q.CategoryID)
}
