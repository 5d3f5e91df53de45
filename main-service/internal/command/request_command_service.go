package command

import (
	"context"
	"time"

	"github.com/explorewithme/ewm/main-service/internal/repository"
	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
)

type RequestWriter interface {
	CreateLocked(ctx context.Context, req *models.ParticipationRequest, admit repository.AdmissionDecider) error
	Exists(ctx context.Context, eventID, requesterID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	ApplyStatusUpdate(ctx context.Context, eventID int64, requestIDs []int64, decide repository.StatusDecider) (
		confirmed, rejected []models.ParticipationRequest, err error)
}

// RequestCommandService manages participation requests.
type RequestCommandService struct {
	requests RequestWriter
	events   EventLookup
	users    UserLookup
	now      func() time.Time
}

func NewRequestCommandService(requests RequestWriter, events EventLookup, users UserLookup) *RequestCommandService {
	return &RequestCommandService{requests: requests, events: events, users: users, now: utils.Now}
}

func (s *RequestCommandService) CreateRequest(ctx context.Context, cmd cqrs.CreateRequestCommand) (*models.ParticipationRequestDto, error) {
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}

	exists, err := s.requests.Exists(ctx, cmd.EventID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("Request of user id=%d to event id=%d already exists", cmd.UserID, cmd.EventID)
	}
	if e.Initiator.ID == cmd.UserID {
		return nil, apperrors.Conflict("The initiator cannot request participation in their own event")
	}
	if e.State != models.EventPublished {
		return nil, apperrors.Conflict("Cannot participate in an unpublished event")
	}

	req := &models.ParticipationRequest{
		EventID:     cmd.EventID,
		RequesterID: cmd.UserID,
		Created:     s.now(),
	}
	if err := s.requests.CreateLocked(ctx, req, admitRequest); err != nil {
		return nil, err
	}
	view := service.ToRequestDto(req)
	return &view, nil
}

// admitRequest runs under the event lock: a full event refuses the request,
// otherwise it is confirmed at once unless moderation applies.
func admitRequest(e models.Event) (models.RequestStatus, error) {
	if !e.HasCapacity(e.ConfirmedRequests) {
		return "", apperrors.Conflict("The participant limit has been reached")
	}
	if e.NeedsModeration() {
		return models.RequestPending, nil
	}
	return models.RequestConfirmed, nil
}

func (s *RequestCommandService) CancelRequest(ctx context.Context, cmd cqrs.CancelRequestCommand) (*models.ParticipationRequestDto, error) {
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != cmd.UserID {
		return nil, apperrors.NotFound("Request with id=%d was not found", cmd.RequestID)
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, models.RequestCanceled); err != nil {
		return nil, err
	}
	req.Status = models.RequestCanceled
	view := service.ToRequestDto(req)
	return &view, nil
}

// UpdateRequestStatus confirms or rejects pending requests of the
// initiator's event.
func (s *RequestCommandService) UpdateRequestStatus(ctx context.Context, cmd cqrs.UpdateRequestStatusCommand) (*models.EventRequestStatusUpdateResult, error) {
	if cmd.Status != models.RequestConfirmed && cmd.Status != models.RequestRejected {
		return nil, apperrors.BadRequest("Status must be CONFIRMED or REJECTED, got %s", cmd.Status)
	}
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

	confirmed, rejected, err := s.requests.ApplyStatusUpdate(ctx, cmd.EventID, cmd.RequestIDs, planStatusUpdate(cmd.Status))
	if err != nil {
		return nil, err
	}
	return &models.EventRequestStatusUpdateResult{
		ConfirmedRequests: service.ToRequestDtos(confirmed),
		RejectedRequests:  service.ToRequestDtos(rejected),
	}, nil
}

// planStatusUpdate decides the outcome against the locked snapshot. All
// referenced requests must be PENDING. Confirmation stops at the participant
// limit: overflow is rejected, and once the limit is reached every other
// pending request of the event is rejected too.
func planStatusUpdate(status models.RequestStatus) repository.StatusDecider {
	return func(snap repository.StatusSnapshot) (repository.StatusPlan, error) {
		var plan repository.StatusPlan
		for _, req := range snap.Requested {
			if req.Status != models.RequestPending {
				return plan, apperrors.Conflict("Request with id=%d must have status PENDING", req.ID)
			}
		}

		if status == models.RequestRejected {
			for _, req := range snap.Requested {
				plan.Reject = append(plan.Reject, req.ID)
			}
			return plan, nil
		}

		e := snap.Event
		confirmed := e.ConfirmedRequests
		if !e.HasCapacity(confirmed) {
			return plan, apperrors.Conflict("The participant limit has been reached")
		}
		for _, req := range snap.Requested {
			if e.HasCapacity(confirmed) {
				plan.Confirm = append(plan.Confirm, req.ID)
				confirmed++
			} else {
				plan.Reject = append(plan.Reject, req.ID)
			}
		}
		if !e.HasCapacity(confirmed) {
			for _, req := range snap.OtherPending {
				plan.Reject = append(plan.Reject, req.ID)
			}
		}
		return plan, nil
	}
}
