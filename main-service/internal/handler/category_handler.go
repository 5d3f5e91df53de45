package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

// CategoryCommander defines the write-side operations used by CategoryHandler.
type CategoryCommander interface {
	CreateCategory(context.Context, cqrs.CreateCategoryCommand) (*models.CategoryDto, error)
	UpdateCategory(context.Context, cqrs.UpdateCategoryCommand) (*models.CategoryDto, error)
	DeleteCategory(context.Context, cqrs.DeleteCategoryCommand) error
}

// CategoryQuerier defines the read-side operations used by CategoryHandler.
type CategoryQuerier interface {
	ListCategories(context.Context, cqrs.ListCategoriesQuery) ([]models.CategoryDto, error)
	GetCategory(context.Context, cqrs.GetCategoryQuery) (*models.CategoryDto, error)
}

type CategoryHandler struct {
	commands CategoryCommander
	queries  CategoryQuerier
}

func NewCategoryHandler(commands CategoryCommander, queries CategoryQuerier) *CategoryHandler {
	return &CategoryHandler{commands: commands, queries: queries}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.CreateCategory(c.Request.Context(), cqrs.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	catID, ok := middleware.PathID(c, "catId")
	if !ok {
		return
	}
	var req CategoryRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.UpdateCategory(c.Request.Context(), cqrs.UpdateCategoryCommand{CategoryID: catID, Name: req.Name})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	catID, ok := middleware.PathID(c, "catId")
	if !ok {
		return
	}
	if err := h.commands.DeleteCategory(c.Request.Context(), cqrs.DeleteCategoryCommand{CategoryID: catID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}
	views, err := h.queries.ListCategories(c.Request.Context(), cqrs.ListCategoriesQuery{Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	catID, ok := middleware.PathID(c, "catId")
	if !ok {
		return
	}
	view, err := h.queries.GetCategory(c.Request.Context(), cqrs.GetCategoryQuery{CategoryID: catID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
