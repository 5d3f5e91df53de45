package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) (*models.UserDto, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

type UserQuerier interface {
	ListUsers(context.Context, cqrs.ListUsersQuery) ([]models.UserDto, error)
}

// UserHandler serves the admin user endpoints.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req NewUserRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	user, err := h.commands.CreateUser(c.Request.Context(), cqrs.CreateUserCommand{Name: req.Name, Email: req.Email})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	ids, ok := middleware.QueryIDs(c, "ids")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	users, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{IDs: ids, Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	if err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
