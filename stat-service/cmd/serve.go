package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/logging"
	"github.com/explorewithme/ewm/shared/metrics"
	sharedredis "github.com/explorewithme/ewm/shared/redis"
	"github.com/explorewithme/ewm/stat-service/internal/server"
	"github.com/explorewithme/ewm/stat-service/migrations"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serverPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stat service HTTP server",
	Long: `Start the stat service.

The server will:
- Load configuration from environment variables (and .env when present)
- Apply database migrations unless MIGRATE_ON_START=false
- Consume the hit stream when REDIS_ADDR is set
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: 9090)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}

	logger := logging.New(cfg.Logging, "stat-service")
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

	redis, err := sharedredis.NewClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redis.Close()

	m := metrics.New("ewm_stat")
	m.RegisterDB(db, "ewm_stat")

	app := server.New(cfg, db, redis.Raw(), m)

	var wg sync.WaitGroup
	if app.Subscriber != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.Subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("hit stream subscriber stopped")
			}
		}()
	} else {
		logger.Info().Msg("REDIS_ADDR not set; hit stream ingestion disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Bool("stream", app.Subscriber != nil).Msg("stat service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
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
	wg.Wait()
	logger.Info().Msg("server stopped")
	return nil
}
