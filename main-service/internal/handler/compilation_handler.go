package handler

import (
	"context"
	"net/http"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

type CompilationCommander interface {
	CreateCompilation(context.Context, cqrs.CreateCompilationCommand) (*models.CompilationDto, error)
	UpdateCompilation(context.Context, cqrs.UpdateCompilationCommand) (*models.CompilationDto, error)
	DeleteCompilation(context.Context, cqrs.DeleteCompilationCommand) error
}

type CompilationQuerier interface {
	ListCompilations(context.Context, cqrs.ListCompilationsQuery) ([]models.CompilationDto, error)
	GetCompilation(context.Context, cqrs.GetCompilationQuery) (*models.CompilationDto, error)
}

type CompilationHandler struct {
	commands CompilationCommander
	queries  CompilationQuerier
}

func NewCompilationHandler(commands CompilationCommander, queries CompilationQuerier) *CompilationHandler {
	return &CompilationHandler{commands: commands, queries: queries}
}

func (h *CompilationHandler) CreateCompilation(c *gin.Context) {
	var req NewCompilationRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.CreateCompilation(c.Request.Context(), cqrs.CreateCompilationCommand{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.Events,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CompilationHandler) UpdateCompilation(c *gin.Context) {
	compID, ok := middleware.PathID(c, "compId")
	if !ok {
		return
	}
	var req UpdateCompilationRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	view, err := h.commands.UpdateCompilation(c.Request.Context(), cqrs.UpdateCompilationCommand{
		CompilationID: compID,
		Title:         req.Title,
		Pinned:        req.Pinned,
		EventIDs:      req.Events,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CompilationHandler) DeleteCompilation(c *gin.Context) {
	compID, ok := middleware.PathID(c, "compId")
	if !ok {
		return
	}
	if err := h.commands.DeleteCompilation(c.Request.Context(), cqrs.DeleteCompilationCommand{CompilationID: compID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompilationHandler) ListCompilations(c *gin.Context) {
	pinned, ok := middleware.QueryBool(c, "pinned")
	if !ok {
		return
	}
	page, ok := middleware.QueryPage(c)
	if !ok {
		return
	}

	views, err := h.queries.ListCompilations(c.Request.Context(), cqrs.ListCompilationsQuery{Pinned: pinned, Page: page})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CompilationHandler) GetCompilation(c *gin.Context) {
	compID, ok := middleware.PathID(c, "compId")
	if !ok {
		return
	}
	view, err := h.queries.GetCompilation(c.Request.Context(), cqrs.GetCompilationQuery{CompilationID: compID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
