package query

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type RequestReader interface {
	ListByRequester(ctx context.Context, requesterID int64) ([]models.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error)
}

type RequestQueryService struct {
	requests RequestReader
	events   EventLookup
	users    UserLookup
}

func NewRequestQueryService(requests RequestReader, events EventLookup, users UserLookup) *RequestQueryService {
	return &RequestQueryService{requests: requests, events: events, users: users}
}

func (s *RequestQueryService) ListUserRequests(ctx context.Context, q cqrs.ListUserRequestsQuery) ([]models.ParticipationRequestDto, error) {
	if _, err := s.users.GetByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	reqs, err := s.requests.ListByRequester(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return service.ToRequestDtos(reqs), nil
}

// ListEventRequests lists requests to an event owned by the caller.
func (s *RequestQueryService) ListEventRequests(ctx context.Context, q cqrs.ListEventRequestsQuery) ([]models.ParticipationRequestDto, error) {
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
	reqs, err := s.requests.ListByEvent(ctx, q.EventID)
	if err != nil {
		return nil, err
	}
	return service.ToRequestDtos(reqs), nil
}
