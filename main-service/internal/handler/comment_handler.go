package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

type CommentCommander interface {
	CreateComment(context.Context, cqrs.CreateCommentCommand) (*models.CommentDto, error)
	UpdateComment(context.Context, cqrs.UpdateCommentCommand) (*models.CommentDto, error)
	DeleteComment(context.Context, cqrs.DeleteCommentCommand) error
	AdminDeleteComment(context.Context, cqrs.AdminDeleteCommentCommand) error
}

type CommentQuerier interface {
	ListUserComments(context.Context, cqrs.ListUserCommentsQuery) ([]models.CommentDto, error)
	ListEventComments(context.Context, cqrs.ListEventCommentsQuery) ([]models.CommentDto, error)
}

type CommentHandler struct {
	commands CommentCommander
	queries  CommentQuerier
}

func NewCommentHandler(commands CommentCommander, queries CommentQuerier) *CommentHandler {
	return &CommentHandler{commands: commands, queries: queries}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}
	var req CommentRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.CreateComment(c.Request.Context(), cqrs.CreateCommentCommand{
		UserID:  userID,
		EventID: eventID,
		Text:    req.Text,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	commentID, ok := middleware.PathID(c, "commentId")
	if !ok {
		return
	}
	var req CommentRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.UpdateComment(c.Request.Context(), cqrs.UpdateCommentCommand{
		UserID:    userID,
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	commentID, ok := middleware.PathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.commands.DeleteComment(c.Request.Context(), cqrs.DeleteCommentCommand{UserID: userID, CommentID: commentID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) AdminDeleteComment(c *gin.Context) {
	commentID, ok := middleware.PathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.commands.AdminDeleteComment(c.Request.Context(), cqrs.AdminDeleteCommentCommand{CommentID: commentID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) ListUserComments(c *gin.Context) {
	userID, ok := middleware.PathID(c, "userId")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.ListUserComments(c.Request.Context(), cqrs.ListUserCommentsQuery{UserID: userID, Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CommentHandler) ListEventComments(c *gin.Context) {
	eventID, ok := middleware.PathID(c, "eventId")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.ListEventComments(c.Request.Context(), cqrs.ListEventCommentsQuery{EventID: eventID, Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
