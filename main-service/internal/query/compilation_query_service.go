package query

import (
	"context"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CompilationReader interface {
	GetByID(ctx context.Context, id int64) (*models.Compilation, error)
	List(ctx context.Context, pinned *bool, page cqrs.Page) ([]models.Compilation, error)
}

type CompilationQueryService struct {
	compilations CompilationReader
	events       EventBatchLookup
	renderer     EventRenderer
}

func NewCompilationQueryService(compilations CompilationReader, events EventBatchLookup, renderer EventRenderer) *CompilationQueryService {
	return &CompilationQueryService{compilations: compilations, events: events, renderer: renderer}
}

func (s *CompilationQueryService) ListCompilations(ctx context.Context, q cqrs.ListCompilationsQuery) ([]models.CompilationDto, error) {
	list, err := s.compilations.List(ctx, q.Pinned, q.Page)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, list)
}

func (s *CompilationQueryService) GetCompilation(ctx context.Context, q cqrs.GetCompilationQuery) (*models.CompilationDto, error) {
	c, err := s.compilations.GetByID(ctx, q.CompilationID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.render(ctx, []models.Compilation{*c})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// render loads every referenced event once for the whole list.
func (s *CompilationQueryService) render(ctx context.Context, list []models.Compilation) ([]models.CompilationDto, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, c := range list {
		for _, id := range c.EventIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.renderer.Compilations(ctx, list, events), nil
}
