package service

import (
	"context"

	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
)

// ViewCounter resolves view counts per event id. Missing ids count as zero.
type ViewCounter interface {
	Views(ctx context.Context, eventIDs []int64) map[int64]int64
}

// EventAssembler renders events with their derived view counts.
type EventAssembler struct {
	views ViewCounter
}

func NewEventAssembler(views ViewCounter) *EventAssembler {
	return &EventAssembler{views: views}
}

func (a *EventAssembler) Full(ctx context.Context, e *models.Event) models.EventFullDto {
	views := a.views.Views(ctx, []int64{e.ID})
	return toFullDto(e, views[e.ID])
}

func (a *EventAssembler) FullList(ctx context.Context, list []models.Event) []models.EventFullDto {
	views := a.views.Views(ctx, eventIDs(list))
	out := make([]models.EventFullDto, len(list))
	for i := range list {
		out[i] = toFullDto(&list[i], views[list[i].ID])
	}
	return out
}

func (a *EventAssembler) ShortList(ctx context.Context, list []models.Event) []models.EventShortDto {
	return ShortListWithViews(list, a.views.Views(ctx, eventIDs(list)))
}

// ViewsFor exposes the view lookup for callers that sort by views.
func (a *EventAssembler) ViewsFor(ctx context.Context, list []models.Event) map[int64]int64 {
	return a.views.Views(ctx, eventIDs(list))
}

// ShortListWithViews renders events using already resolved view counts.
func ShortListWithViews(list []models.Event, views map[int64]int64) []models.EventShortDto {
	out := make([]models.EventShortDto, len(list))
	for i := range list {
		out[i] = toShortDto(&list[i], views[list[i].ID])
	}
	return out
}

func eventIDs(list []models.Event) []int64 {
	ids := make([]int64, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

func toFullDto(e *models.Event, views int64) models.EventFullDto {
	return models.EventFullDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          ToCategoryDto(&e.Category),
		ConfirmedRequests: e.ConfirmedRequests,
		CreatedOn:         utils.FormatDateTime(e.CreatedOn),
		Description:       e.Description,
		EventDate:         utils.FormatDateTime(e.EventDate),
		Initiator:         models.UserShortDto{ID: e.Initiator.ID, Name: e.Initiator.Name},
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		PublishedOn:       utils.FormatDateTimePtr(e.PublishedOn),
		RequestModeration: e.RequestModeration,
		State:             e.State,
		Title:             e.Title,
		Views:             views,
	}
}

func toShortDto(e *models.Event, views int64) models.EventShortDto {
	return models.EventShortDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          ToCategoryDto(&e.Category),
		ConfirmedRequests: e.ConfirmedRequests,
		EventDate:         utils.FormatDateTime(e.EventDate),
		Initiator:         models.UserShortDto{ID: e.Initiator.ID, Name: e.Initiator.Name},
		Paid:              e.Paid,
		Title:             e.Title,
		Views:             views,
	}
}

// Compilations renders compilations with their events as short views. events
// must contain every event referenced by list; one view lookup covers all.
func (a *EventAssembler) Compilations(ctx context.Context, list []models.Compilation, events []models.Event) []models.CompilationDto {
	short := a.ShortList(ctx, events)
	byID := make(map[int64]models.EventShortDto, len(short))
	for _, dto := range short {
		byID[dto.ID] = dto
	}

	out := make([]models.CompilationDto, len(list))
	for i, c := range list {
		dto := models.CompilationDto{
			ID:     c.ID,
			Title:  c.Title,
			Pinned: c.Pinned,
			Events: make([]models.EventShortDto, 0, len(c.EventIDs)),
		}
		for _, id := range c.EventIDs {
			if ev, ok := byID[id]; ok {
				dto.Events = append(dto.Events, ev)
			}
		}
		out[i] = dto
	}
	return out
}
