// Package server assembles the stat service.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/explorewithme/ewm/shared/events"
	"github.com/explorewithme/ewm/shared/metrics"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/stat-service/internal/command"
	"github.com/explorewithme/ewm/stat-service/internal/config"
	"github.com/explorewithme/ewm/stat-service/internal/handler"
	"github.com/explorewithme/ewm/stat-service/internal/query"
	"github.com/explorewithme/ewm/stat-service/internal/repository"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const healthTimeout = 2 * time.Second

// App is the wired stat service. Subscriber is nil when stream ingestion is
// disabled.
type App struct {
	Router     *gin.Engine
	Subscriber *events.Subscriber
}

// New wires the service. rdb and m may be nil.
func New(cfg config.Config, db *sql.DB, rdb *goredis.Client, m *metrics.Metrics) *App {
	hits := repository.NewHitRepository(db)
	commands := command.NewHitCommandService(hits, m)
	queries := query.NewStatsQueryService(hits)

	router := gin.New()
	middleware.TrustProxies(router, cfg.TrustedProxies)
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(), m.Middleware())
	router.GET("/health", health(db))
	router.GET("/metrics", gin.WrapH(m.Handler()))
	handler.RegisterRoutes(router, handler.NewStatHandler(commands, queries))

	app := &App{Router: router}
	if rdb != nil {
		app.Subscriber = events.NewSubscriber(rdb, events.SubscriberConfig{
			Group:         cfg.Stream.Group,
			Consumer:      cfg.Stream.Consumer,
			Stream:        cfg.Stream.Name,
			Handler:       commands.HandleHitEvent,
			BatchSize:     cfg.Stream.BatchSize,
			BlockDuration: cfg.Stream.Block,
			RetryInterval: cfg.Stream.Retry,
		})
	}
	return app
}

func health(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
