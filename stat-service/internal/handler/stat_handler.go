package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/explorewithme/ewm/stat-service/internal/command"
	"github.com/gin-gonic/gin"
)

type HitCommander interface {
	SaveHit(context.Context, cqrs.SaveHitCommand) (*models.EndpointHitDto, error)
}

type StatsQuerier interface {
	GetStats(context.Context, cqrs.GetStatsQuery) ([]models.ViewStats, error)
}

type StatHandler struct {
	commands HitCommander
	queries  StatsQuerier
}

func NewStatHandler(commands HitCommander, queries StatsQuerier) *StatHandler {
	return &StatHandler{commands: commands, queries: queries}
}

// RegisterRoutes mounts POST /hit and GET /stats on r.
func RegisterRoutes(r gin.IRouter, h *StatHandler) {
	r.POST("/hit", h.SaveHit)
	r.GET("/stats", h.GetStats)
}

func (h *StatHandler) SaveHit(c *gin.Context) {
	var req models.EndpointHitDto
	if !middleware.BindJSON(c, &req) {
		return
	}
	cmd, err := command.ParseHit(req)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	hit, err := h.commands.SaveHit(c.Request.Context(), cmd)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hit)
}

func (h *StatHandler) GetStats(c *gin.Context) {
	start, ok := requiredDateTime(c, "start")
	if !ok {
		return
	}
	end, ok := requiredDateTime(c, "end")
	if !ok {
		return
	}
	unique, ok := middleware.QueryBool(c, "unique")
	if !ok {
		return
	}

	q := cqrs.GetStatsQuery{
		Start: start,
		End:   end,
		URIs:  utils.SplitList(c.QueryArray("uris")),
	}
	if unique != nil {
		q.Unique = *unique
	}

	stats, err := h.queries.GetStats(c.Request.Context(), q)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func requiredDateTime(c *gin.Context, name string) (time.Time, bool) {
	if _, present := c.GetQuery(name); !present {
		middleware.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Required request parameter '%s' is not present", name))
		return time.Time{}, false
	}
	t, ok := middleware.QueryDateTime(c, name)
	if !ok {
		return time.Time{}, false
	}
	if t == nil {
		middleware.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter %s must not be empty", name))
		return time.Time{}, false
	}
	return *t, true
}
