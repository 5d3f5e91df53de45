package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

type RequestCommander interface {
	CreateRequest(context.Context, cqrs.CreateRequestCommand) (*models.ParticipationRequestDto, error)
	CancelRequest(context.Context, cqrs.CancelRequestCommand) (*models.ParticipationRequestDto, error)
	UpdateRequestStatus(context.Context, cqrs.UpdateRequestStatusCommand) (*models.EventRequestStatusUpdateResult, error)
}

type RequestQuerier interface {
	ListUserRequests(context.Context, cqrs.ListUserRequestsQuery) ([]models.ParticipationRequestDto, error)
	ListEventRequests(context.Context, cqrs.ListEventRequestsQuery) ([]models.ParticipationRequestDto, error)
}

// RequestHandler serves participation requests, both from the requester's
// side and from the event initiator's side.
type RequestHandler struct {
	commands RequestCommander
	queries  RequestQuerier
}

func NewRequestHandler(commands RequestCommander, queries RequestQuerier) *RequestHandler {
	return &RequestHandler{commands: commands, queries: queries}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.QueryID(c, "eventId")
	if !ok {
		return
	}

	req, err := h.commands.CreateRequest(c.Request.Context(), cqrs.CreateRequestCommand{UserID: userID, EventID: eventID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *RequestHandler) ListUserRequests(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	reqs, err := h.queries.ListUserRequests(c.Request.Context(), cqrs.ListUserRequestsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	requestID, ok := middleware.PathID(c, "requestId")
	if !ok {
		return
	}

	req, err := h.commands.CancelRequest(c.Request.Context(), cqrs.CancelRequestCommand{UserID: userID, RequestID: requestID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) ListEventRequests(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}

	reqs, err := h.queries.ListEventRequests(c.Request.Context(), cqrs.ListEventRequestsQuery{UserID: userID, EventID: eventID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}
	var body StatusUpdateRequest
	if !middleware.BindJSON(c, &body) {
		return
	}

	result, err := h.commands.UpdateRequestStatus(c.Request.Context(), cqrs.UpdateRequestStatusCommand{
		UserID:     userID,
		EventID:    eventID,
		RequestIDs: body.RequestIDs,
		Status:     models.RequestStatus(body.Status),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
