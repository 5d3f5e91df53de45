package query

import (
	"context"
	"sort"
	"time"

	"github.com/explorewithme/ewm/main-service/internal/repository"
	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/rs/zerolog/log"
)

type EventReader interface {
	EventLookup
	Search(ctx context.Context, f repository.EventFilter) ([]models.Event, error)
}

// HitRecorder forwards a public request to the stat service.
type HitRecorder interface {
	Hit(ctx context.Context, ip, uri string) error
}

type EventQueryService struct {
	events   EventReader
	users    UserLookup
	renderer EventRenderer
	hits     HitRecorder
	now      func() time.Time
}

func NewEventQueryService(events EventReader, users UserLookup, renderer EventRenderer, hits HitRecorder) *EventQueryService {
	return &EventQueryService{events: events, users: users, renderer: renderer, hits: hits, now: utils.Now}
}

func (s *EventQueryService) ListUserEvents(ctx context.Context, q cqrs.ListUserEventsQuery) ([]models.EventShortDto, error) {
	if _, err := s.users.GetByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	page := q.Page
	list, err := s.events.Search(ctx, repository.EventFilter{Initiators: []int64{q.UserID}, Page: &page})
	if err != nil {
		return nil, err
	}
	return s.renderer.ShortList(ctx, list), nil
}

func (s *EventQueryService) GetUserEvent(ctx context.Context, q cqrs.GetUserEventQuery) (*models.EventFullDto, error) {
	if _, err := s.users.GetByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, q.EventID)
	if err != nil {
		return nil, err
	}
	if e.Initiator.ID != q.UserID {
		return nil, apperrors.NotFound("Event with id=%d was not found", q.EventID)
	}
	view := s.renderer.Full(ctx, e)
	return &view, nil
}

func (s *EventQueryService) AdminSearchEvents(ctx context.Context, q cqrs.AdminSearchEventsQuery) ([]models.EventFullDto, error) {
	states := make([]models.EventState, 0, len(q.States))
	for _, raw := range q.States {
		state := models.EventState(raw)
		if !state.Valid() {
			return nil, apperrors.BadRequest("Unknown state: %s", raw)
		}
		states = append(states, state)
	}
	if err := checkRange(q.RangeStart, q.RangeEnd); err != nil {
		return nil, err
	}

	page := q.Page
	list, err := s.events.Search(ctx, repository.EventFilter{
		Initiators: q.Users,
		States:     states,
		Categories: q.Categories,
		RangeStart: q.RangeStart,
		RangeEnd:   q.RangeEnd,
		Page:       &page,
	})
	if err != nil {
		return nil, err
	}
	return s.renderer.FullList(ctx, list), nil
}

// PublicSearchEvents searches published events and records the request as
// a hit. Without a date range only upcoming events match.
func (s *EventQueryService) PublicSearchEvents(ctx context.Context, q cqrs.PublicSearchEventsQuery) ([]models.EventShortDto, error) {
	switch q.Sort {
	case "", models.SortEventDate, models.SortViews:
	default:
		return nil, apperrors.BadRequest("Unknown sort: %s", q.Sort)
	}
	if err := checkRange(q.RangeStart, q.RangeEnd); err != nil {
		return nil, err
	}

	s.recordHit(ctx, q.Client)

	filter := repository.EventFilter{
		States:        []models.EventState{models.EventPublished},
		Categories:    q.Categories,
		RangeStart:    q.RangeStart,
		RangeEnd:      q.RangeEnd,
		Text:          q.Text,
		Paid:          q.Paid,
		OnlyAvailable: q.OnlyAvailable,
	}
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		now := s.now()
		filter.RangeStart = &now
	}

	page := q.Page
	if q.Sort != models.SortViews {
		if q.Sort == models.SortEventDate {
			filter.Order = repository.OrderByEventDate
		}
		filter.Page = &page
		list, err := s.events.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return s.renderer.ShortList(ctx, list), nil
	}

	// Views live in the stat service, so ordering by them happens here.
	list, err := s.events.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := service.ShortListWithViews(list, s.renderer.ViewsFor(ctx, list))
	sort.SliceStable(dtos, func(i, j int) bool { return dtos[i].Views > dtos[j].Views })
	return paginate(dtos, page), nil
}

func (s *EventQueryService) GetPublishedEvent(ctx context.Context, q cqrs.GetPublishedEventQuery) (*models.EventFullDto, error) {
	e, err := s.events.GetByID(ctx, q.EventID)
	if err != nil {
		return nil, err
	}
	if e.State != models.EventPublished {
		return nil, apperrors.NotFound("Event with id=%d was not found", q.EventID)
	}
	s.recordHit(ctx, q.Client)
	view := s.renderer.Full(ctx, e)
	return &view, nil
}

// recordHit never fails the request.
func (s *EventQueryService) recordHit(ctx context.Context, c cqrs.Client) {
	if err := s.hits.Hit(ctx, c.IP, c.URI); err != nil {
		log.Warn().Err(err).Str("uri", c.URI).Msg("failed to record hit")
	}
}

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return apperrors.BadRequest("rangeStart must not be after rangeEnd")
	}
	return nil
}

func paginate[T any](items []T, page cqrs.Page) []T {
	if page.From >= len(items) {
		return []T{}
	}
	end := page.From + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[page.From:end]
}
