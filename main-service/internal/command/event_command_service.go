package command

import (
	"context"
	"time"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
)

const (
	// Minimum lead time between now and the event date on create and on
	// initiator updates.
	userEventLeadTime = 2 * time.Hour
	// Minimum lead time between publication and the event date.
	publishLeadTime = time.Hour
)

type EventWriter interface {
	EventLookup
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
}

// EventCommandService implements the event lifecycle.
type EventCommandService struct {
	events     EventWriter
	categories CategoryLookup
	users      UserLookup
	renderer   EventRenderer
	now        func() time.Time
}

func NewEventCommandService(events EventWriter, categories CategoryLookup, users UserLookup, renderer EventRenderer) *EventCommandService {
	return &EventCommandService{
		events:     events,
		categories: categories,
		users:      users,
		renderer:   renderer,
		now:        utils.Now,
	}
}

func (s *EventCommandService) CreateEvent(ctx context.Context, cmd cqrs.CreateEventCommand) (*models.EventFullDto, error) {
	now := s.now()
	if cmd.EventDate.Before(now.Add(userEventLeadTime)) {
		return nil, apperrors.BadRequest("Field: eventDate. Error: must be at least 2 hours in the future. Value: %s",
			utils.FormatDateTime(cmd.EventDate))
	}
	initiator, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	e := &models.Event{
		Annotation:        cmd.Annotation,
		Category:          *category,
		Description:       cmd.Description,
		EventDate:         cmd.EventDate,
		CreatedOn:         now,
		Initiator:         *initiator,
		Location:          cmd.Location,
		Paid:              false,
		ParticipantLimit:  0,
		RequestModeration: true,
		State:             models.EventPending,
		Title:             cmd.Title,
	}
	if cmd.Paid != nil {
		e.Paid = *cmd.Paid
	}
	if cmd.ParticipantLimit != nil {
		e.ParticipantLimit = *cmd.ParticipantLimit
	}
	if cmd.RequestModeration != nil {
		e.RequestModeration = *cmd.RequestModeration
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	view := s.renderer.Full(ctx, e)
	return &view, nil
}

// UpdateUserEvent applies an initiator's changes. Published events are
// frozen for their initiator.
func (s *EventCommandService) UpdateUserEvent(ctx context.Context, cmd cqrs.UpdateUserEventCommand) (*models.EventFullDto, error) {
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}
	if e.Initiator.ID != cmd.UserID {
		return nil, apperrors.NotFound("Event with id=%d was not found", cmd.EventID)
	}
	if e.State == models.EventPublished {
		return nil, apperrors.Conflict("Only pending or canceled events can be changed")
	}
	if d := cmd.Patch.EventDate; d != nil && d.Before(s.now().Add(userEventLeadTime)) {
		return nil, apperrors.BadRequest("Field: eventDate. Error: must be at least 2 hours in the future. Value: %s",
			utils.FormatDateTime(*d))
	}

	if err := s.applyPatch(ctx, e, cmd.Patch); err != nil {
		return nil, err
	}
	if action := cmd.Patch.StateAction; action != nil {
		switch *action {
		case models.ActionSendToReview:
			e.State = models.EventPending
		case models.ActionCancelReview:
			e.State = models.EventCanceled
		default:
			return nil, apperrors.BadRequest("Unknown state action: %s", *action)
		}
	}

	return s.save(ctx, e)
}

// UpdateAdminEvent applies moderation: publishing or rejecting, plus any
// field changes.
func (s *EventCommandService) UpdateAdminEvent(ctx context.Context, cmd cqrs.UpdateAdminEventCommand) (*models.EventFullDto, error) {
	now := s.now()
	if d := cmd.Patch.EventDate; d != nil && !d.After(now) {
		return nil, apperrors.BadRequest("Field: eventDate. Error: must be in the future. Value: %s", utils.FormatDateTime(*d))
	}
	e, err := s.events.GetByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}

	if action := cmd.Patch.StateAction; action != nil {
		switch *action {
		case models.ActionPublishEvent, models.ActionRejectEvent:
		default:
			return nil, apperrors.BadRequest("Unknown state action: %s", *action)
		}
	}

	if err := s.applyPatch(ctx, e, cmd.Patch); err != nil {
		return nil, err
	}

	if action := cmd.Patch.StateAction; action != nil {
		switch *action {
		case models.ActionPublishEvent:
			if e.State != models.EventPending {
				return nil, apperrors.Conflict("Cannot publish the event because it's not in the right state: %s", e.State)
			}
			if e.EventDate.Before(now.Add(publishLeadTime)) {
				return nil, apperrors.Conflict("Cannot publish the event because it starts in less than an hour")
			}
			e.State = models.EventPublished
			e.PublishedOn = &now
		case models.ActionRejectEvent:
			if e.State == models.EventPublished {
				return nil, apperrors.Conflict("Cannot reject the event because it's already published")
			}
			e.State = models.EventCanceled
		}
	}

	return s.save(ctx, e)
}

func (s *EventCommandService) applyPatch(ctx context.Context, e *models.Event, p cqrs.EventPatch) error {
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.CategoryID != nil && *p.CategoryID != e.Category.ID {
		category, err := s.categories.GetByID(ctx, *p.CategoryID)
		if err != nil {
			return err
		}
		e.Category = *category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	return nil
}

func (s *EventCommandService) save(ctx context.Context, e *models.Event) (*models.EventFullDto, error) {
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	view := s.renderer.Full(ctx, e)
	return &view, nil
}
