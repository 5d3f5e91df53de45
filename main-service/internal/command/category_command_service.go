package command

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CategoryWriter interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryViewStore keeps the cached category read model in sync.
type CategoryViewStore interface {
	CacheCategoryView(ctx context.Context, view *models.CategoryDto)
	InvalidateCategoryView(ctx context.Context, id int64)
}

// CategoryCommandService writes categories and refreshes the read model.
type CategoryCommandService struct {
	writeRepo CategoryWriter
	readRepo  CategoryViewStore
}

func NewCategoryCommandService(writeRepo CategoryWriter, readRepo CategoryViewStore) *CategoryCommandService {
	return &CategoryCommandService{writeRepo: writeRepo, readRepo: readRepo}
}

func (s *CategoryCommandService) CreateCategory(ctx context.Context, cmd cqrs.CreateCategoryCommand) (*models.CategoryDto, error) {
	category := &models.Category{Name: cmd.Name}
	if err := s.writeRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	view := service.ToCategoryDto(category)
	s.readRepo.CacheCategoryView(ctx, &view)
	return &view, nil
}

func (s *CategoryCommandService) UpdateCategory(ctx context.Context, cmd cqrs.UpdateCategoryCommand) (*models.CategoryDto, error) {
	category := &models.Category{ID: cmd.CategoryID, Name: cmd.Name}
	if err := s.writeRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	view := service.ToCategoryDto(category)
	s.readRepo.CacheCategoryView(ctx, &view)
	return &view, nil
}

func (s *CategoryCommandService) DeleteCategory(ctx context.Context, cmd cqrs.DeleteCategoryCommand) error {
	if err := s.writeRepo.Delete(ctx, cmd.CategoryID); err != nil {
		return err
	}
	s.readRepo.InvalidateCategoryView(ctx, cmd.CategoryID)
	return nil
}
