package command

import (
	"context"
	"slices"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CompilationWriter interface {
	Create(ctx context.Context, c *models.Compilation) error
	Update(ctx context.Context, c *models.Compilation, replaceEvents bool) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Compilation, error)
}

type EventBatchLookup interface {
	GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error)
}

type CompilationRenderer interface {
	Compilations(ctx context.Context, list []models.Compilation, events []models.Event) []models.CompilationDto
}

type CompilationCommandService struct {
	compilations CompilationWriter
	events       EventBatchLookup
	renderer     CompilationRenderer
}

func NewCompilationCommandService(compilations CompilationWriter, events EventBatchLookup, renderer CompilationRenderer) *CompilationCommandService {
	return &CompilationCommandService{compilations: compilations, events: events, renderer: renderer}
}

func (s *CompilationCommandService) CreateCompilation(ctx context.Context, cmd cqrs.CreateCompilationCommand) (*models.CompilationDto, error) {
	ids := uniqueIDs(cmd.EventIDs)
	events, err := s.loadEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	c := &models.Compilation{Title: cmd.Title, Pinned: cmd.Pinned, EventIDs: ids}
	if err := s.compilations.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.render(ctx, c, events), nil
}

func (s *CompilationCommandService) UpdateCompilation(ctx context.Context, cmd cqrs.UpdateCompilationCommand) (*models.CompilationDto, error) {
	c, err := s.compilations.GetByID(ctx, cmd.CompilationID)
	if err != nil {
		return nil, err
	}
	if cmd.Title != nil {
		c.Title = *cmd.Title
	}
	if cmd.Pinned != nil {
		c.Pinned = *cmd.Pinned
	}
	replace := cmd.EventIDs != nil
	if replace {
		c.EventIDs = uniqueIDs(cmd.EventIDs)
	}

	events, err := s.loadEvents(ctx, c.EventIDs)
	if err != nil {
		return nil, err
	}
	if err := s.compilations.Update(ctx, c, replace); err != nil {
		return nil, err
	}
	return s.render(ctx, c, events), nil
}

func (s *CompilationCommandService) DeleteCompilation(ctx context.Context, cmd cqrs.DeleteCompilationCommand) error {
	return s.compilations.Delete(ctx, cmd.CompilationID)
}

// loadEvents fetches ids and fails with NotFound naming the first unknown id.
func (s *CompilationCommandService) loadEvents(ctx context.Context, ids []int64) ([]models.Event, error) {
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(events) == len(ids) {
		return events, nil
	}
	found := make(map[int64]bool, len(events))
	for _, e := range events {
		found[e.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperrors.NotFound("Event with id=%d was not found", id)
		}
	}
	return events, nil
}

func (s *CompilationCommandService) render(ctx context.Context, c *models.Compilation, events []models.Event) *models.CompilationDto {
	dto := s.renderer.Compilations(ctx, []models.Compilation{*c}, events)[0]
	return &dto
}

// uniqueIDs drops duplicates keeping first occurrences. A nil input yields an
// empty slice.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
