package query

import (
	"context"

	"github.com/explorewithme/ewm/shared/models"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type EventLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

type EventBatchLookup interface {
	GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error)
}

// EventRenderer turns events into API views with their view counts.
type EventRenderer interface {
	Full(ctx context.Context, e *models.Event) models.EventFullDto
	FullList(ctx context.Context, list []models.Event) []models.EventFullDto
	ShortList(ctx context.Context, list []models.Event) []models.EventShortDto
	ViewsFor(ctx context.Context, list []models.Event) map[int64]int64
	Compilations(ctx context.Context, list []models.Compilation, events []models.Event) []models.CompilationDto
}
