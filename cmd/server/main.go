package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/kickoff/backend/internal/cache"
	"github.com/anonto42/kickoff/backend/internal/handlers"
	"github.com/anonto42/kickoff/backend/internal/logger"
	"github.com/anonto42/kickoff/backend/internal/metrics"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"github.com/anonto42/kickoff/backend/internal/router"
	"github.com/anonto42/kickoff/backend/internal/security"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/anonto42/kickoff/backend/internal/upstream/footballdata"
	"github.com/anonto42/kickoff/backend/internal/upstream/guardian"
	"github.com/anonto42/kickoff/backend/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.SetupDefault(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Storage
	var (
		users    repositories.UserRepository
		comments repositories.CommentRepository
		store    handlers.Pinger
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		if cfg.IsDevelopment() {
			appLogger.Info("using in-memory storage")
		} else {
			appLogger.Warn("using in-memory storage outside development; data is lost on restart", slog.String("env", cfg.Env))
		}
		users = repositories.NewMemoryUserRepository()
		comments = repositories.NewMemoryCommentRepository()
	default:
		db, err := config.InitDB(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer db.CloseDB() // Ensure database connections are closed when run exits

		mongoUsers := repositories.NewMongoUserRepository(db.Database)
		mongoComments := repositories.NewMongoCommentRepository(db.Database)
		if err := mongoUsers.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := mongoComments.EnsureIndexes(ctx); err != nil {
			return err
		}
		users, comments, store = mongoUsers, mongoComments, db
	}

	// Upstream response cache
	var backend cache.Cache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Warn("redis unreachable; caching responses in process", slog.Any("error", err))
		} else {
			backend = cache.NewRedisCache(rdb, "kickoff:")
			appLogger.Info("upstream cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
		}
	}
	responses := cache.NewJSON(backend, cfg.Redis.TTL, appLogger, collector)

	httpClient := &http.Client{}

	news, err := guardian.New(guardian.Options{
		BaseURL:    cfg.Upstream.GuardianBaseURL,
		APIKey:     cfg.Upstream.GuardianAPIKey,
		HTTPClient: httpClient,
		Timeout:    cfg.Upstream.Timeout,
		Logger:     appLogger,
		Recorder:   collector,
		Cache:      responses,
		Sanitizer:  security.NewArticleSanitizer(),
	})
	if err != nil {
		return err
	}

	stats, err := footballdata.New(footballdata.Options{
		BaseURL:    cfg.Upstream.FootballDataBaseURL,
		APIKey:     cfg.Upstream.FootballDataAPIKey,
		HTTPClient: httpClient,
		Timeout:    cfg.Upstream.Timeout,
		Logger:     appLogger,
		Recorder:   collector,
		Cache:      responses,
	})
	if err != nil {
		return err
	}
	if cfg.Upstream.GuardianAPIKey == "" || cfg.Upstream.FootballDataAPIKey == "" {
		appLogger.Warn("upstream API keys missing; news or stats requests will fail")
	}

	e := router.New(router.Dependencies{
		Logger:       appLogger,
		Tokens:       services.NewTokenService(cfg.JWT.Secret),
		Credentials:  services.NewCredentials(users, appLogger),
		Comments:     services.NewComments(comments, appLogger, collector),
		Stats:        services.NewStats(stats, appLogger),
		News:         news,
		Store:        store,
		Metrics:      collector,
		Gatherer:     reg,
		StoreTimeout: cfg.Storage.Timeout,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimitRPS: cfg.RateLimitRPS,
		StaticDir:    cfg.StaticDir,
	})

	// Start server
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("server listening", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
