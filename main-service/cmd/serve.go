package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/explorewithme/ewm/main-service/internal/server"
	"github.com/explorewithme/ewm/main-service/migrations"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/logging"
	"github.com/explorewithme/ewm/shared/metrics"
	sharedredis "github.com/explorewithme/ewm/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterSweep    = time.Minute
)

var serverPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the main service HTTP server",
	Long: `Start the main service and accept API requests.

The server will:
- Load configuration from environment variables (and .env when present)
- Apply database migrations unless MIGRATE_ON_START=false
- Connect to Redis when REDIS_ADDR is set (views cache, hit stream)
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}

	logger := logging.New(cfg.Logging, "main-service")
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := database.MigrateUp(cfg.Database.URL, migrations.FS); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		logger.Info().Msg("database migrations applied")
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	// Redis connection (views cache + hit stream), optional
	redis, err := sharedredis.NewClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redis.Close()
	if redis == nil {
		logger.Info().Msg("REDIS_ADDR not set; views cache and hit stream disabled")
	}

	m := metrics.New("ewm_main")
	m.RegisterDB(db, "ewm_main")

	app := server.New(cfg, db, redis.Raw(), m)
	go app.SweepLimiter(ctx, limiterSweep)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("hit_transport", cfg.Stat.Transport).Msg("main service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
