// Package server assembles the main service: repositories, services,
// handlers and the gin router.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/explorewithme/ewm/main-service/internal/command"
	"github.com/explorewithme/ewm/main-service/internal/config"
	"github.com/explorewithme/ewm/main-service/internal/handler"
	"github.com/explorewithme/ewm/main-service/internal/query"
	"github.com/explorewithme/ewm/main-service/internal/repository"
	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/main-service/internal/statclient"
	"github.com/explorewithme/ewm/shared/metrics"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const healthTimeout = 2 * time.Second

// App is the wired main service.
type App struct {
	Router  *gin.Engine
	limiter *middleware.RateLimiter
}

// New wires the service. rdb and m may be nil.
func New(cfg config.Config, db *sql.DB, rdb *goredis.Client, m *metrics.Metrics) *App {
	// --- CQRS wiring ---
	categoryWrite := repository.NewCategoryWriteRepository(db)
	categoryRead := repository.NewCategoryReadRepository(db, rdb)
	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	requests := repository.NewRequestRepository(db)
	compilations := repository.NewCompilationRepository(db)
	comments := repository.NewCommentRepository(db)

	stats := statclient.New(cfg.Stat, rdb, m)
	assembler := service.NewEventAssembler(stats)

	h := handler.Handlers{
		Categories: handler.NewCategoryHandler(
			command.NewCategoryCommandService(categoryWrite, categoryRead),
			query.NewCategoryQueryService(categoryRead),
		),
		Users: handler.NewUserHandler(
			command.NewUserCommandService(users),
			query.NewUserQueryService(users),
		),
		Events: handler.NewEventHandler(
			command.NewEventCommandService(events, categoryWrite, users, assembler),
			query.NewEventQueryService(events, users, assembler, stats),
		),
		Requests: handler.NewRequestHandler(
			command.NewRequestCommandService(requests, events, users),
			query.NewRequestQueryService(requests, events, users),
		),
		Compilations: handler.NewCompilationHandler(
			command.NewCompilationCommandService(compilations, events, assembler),
			query.NewCompilationQueryService(compilations, events, assembler),
		),
		Comments: handler.NewCommentHandler(
			command.NewCommentCommandService(comments, events, users),
			query.NewCommentQueryService(comments, events, users),
		),
	}

	limiter := middleware.NewRateLimiter(cfg.PublicLimit)

	router := gin.New()
	middleware.TrustProxies(router, cfg.TrustedProxies)
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(), m.Middleware())
	router.GET("/health", health(db))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handler.RegisterRoutes(router, h, handler.RouteGuards{
		Admin:  middleware.AdminAuthMiddleware(cfg.AdminJWTSecret),
		Public: limiter.Middleware(),
	})

	return &App{Router: router, limiter: limiter}
}

// SweepLimiter drops idle rate limiter buckets until ctx is done.
func (a *App) SweepLimiter(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.limiter.Sweep()
		}
	}
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
