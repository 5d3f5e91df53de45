package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/gin-gonic/gin"
)

// EventCommander defines the write-side operations used by EventHandler.
type EventCommander interface {
	CreateEvent(context.Context, cqrs.CreateEventCommand) (*models.EventFullDto, error)
	UpdateUserEvent(context.Context, cqrs.UpdateUserEventCommand) (*models.EventFullDto, error)
	UpdateAdminEvent(context.Context, cqrs.UpdateAdminEventCommand) (*models.EventFullDto, error)
}

// EventQuerier defines the read-side operations used by EventHandler.
type EventQuerier interface {
	ListUserEvents(context.Context, cqrs.ListUserEventsQuery) ([]models.EventShortDto, error)
	GetUserEvent(context.Context, cqrs.GetUserEventQuery) (*models.EventFullDto, error)
	AdminSearchEvents(context.Context, cqrs.AdminSearchEventsQuery) ([]models.EventFullDto, error)
	PublicSearchEvents(context.Context, cqrs.PublicSearchEventsQuery) ([]models.EventShortDto, error)
	GetPublishedEvent(context.Context, cqrs.GetPublishedEventQuery) (*models.EventFullDto, error)
}

// EventHandler serves the private, admin and public event endpoints.
type EventHandler struct {
	commands EventCommander
	queries  EventQuerier
}

func NewEventHandler(commands EventCommander, queries EventQuerier) *EventHandler {
	return &EventHandler{commands: commands, queries: queries}
}

// ---- private ----

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	var req NewEventRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.CreateEvent(c.Request.Context(), cqrs.CreateEventCommand{
		UserID:            userID,
		Annotation:        req.Annotation,
		CategoryID:        req.Category,
		Description:       req.Description,
		EventDate:         req.EventDate.Time,
		Location:          *req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		Title:             req.Title,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *EventHandler) ListUserEvents(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.ListUserEvents(c.Request.Context(), cqrs.ListUserEventsQuery{UserID: userID, Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *EventHandler) GetUserEvent(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}

	view, err := h.queries.GetUserEvent(c.Request.Context(), cqrs.GetUserEventQuery{UserID: userID, EventID: eventID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *EventHandler) UpdateUserEvent(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.UpdateUserEvent(c.Request.Context(), cqrs.UpdateUserEventCommand{
		UserID:  userID,
		EventID: eventID,
		Patch:   req.patch(),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ---- admin ----

func (h *EventHandler) AdminSearchEvents(c *gin.Context) {
	users, ok := middleware.QueryIDs(c, "users")
	if !ok {
		return
	}
	categories, ok := middleware.QueryIDs(c, "categories")
	if !ok {
		return
	}
	rangeStart, ok := middleware.QueryDateTime(c, "rangeStart")
	if !ok {
		return
	}
	rangeEnd, ok := middleware.QueryDateTime(c, "rangeEnd")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.AdminSearchEvents(c.Request.Context(), cqrs.AdminSearchEventsQuery{
		Users:      users,
		States:     utils.SplitList(c.QueryArray("states")),
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Page:       page,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *EventHandler) AdminUpdateEvent(c *gin.Context) {
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.UpdateAdminEvent(c.Request.Context(), cqrs.UpdateAdminEventCommand{
		EventID: eventID,
		Patch:   req.patch(),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ---- public ----

func (h *EventHandler) SearchEvents(c *gin.Context) {
	categories, ok := middleware.QueryIDs(c, "categories")
	if !ok {
		return
	}
	paid, ok := middleware.QueryBool(c, "paid")
	if !ok {
		return
	}
	rangeStart, ok := middleware.QueryDateTime(c, "rangeStart")
	if !ok {
		return
	}
	rangeEnd, ok := middleware.QueryDateTime(c, "rangeEnd")
	if !ok {
		return
	}
	onlyAvailable, ok := middleware.QueryBool(c, "onlyAvailable")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.PublicSearchEvents(c.Request.Context(), cqrs.PublicSearchEventsQuery{
		Text:          c.Query("text"),
		Categories:    categories,
		Paid:          paid,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
		OnlyAvailable: onlyAvailable != nil && *onlyAvailable,
		Sort:          c.Query("sort"),
		Page:          page,
		Client:        clientOf(c),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}

	view, err := h.queries.GetPublishedEvent(c.Request.Context(), cqrs.GetPublishedEventQuery{
		EventID: eventID,
		Client:  clientOf(c),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// clientOf identifies the caller for hit recording. The URI carries the path
// only, so hits for one event share a key regardless of query string.
func clientOf(c *gin.Context) cqrs.Client {
	return cqrs.Client{IP: c.ClientIP(), URI: c.Request.URL.Path}
}
