package command

import (
	"context"

	"github.com/explorewithme/ewm/shared/models"
)

// Lookups shared by several command services. Each returns an
// apperrors.NotFound error for an unknown id.

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type CategoryLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
}

type EventLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// EventRenderer turns events into API views with their view counts.
type EventRenderer interface {
	Full(ctx context.Context, e *models.Event) models.EventFullDto
	ShortList(ctx context.Context, list []models.Event) []models.EventShortDto
}
