package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"turnready/internal/authn"
	"turnready/internal/config"
	"turnready/internal/database"
	"turnready/internal/gate"
	"turnready/internal/handler"
	"turnready/internal/job"
	"turnready/internal/metrics"
	"turnready/internal/middleware"
	"turnready/internal/partreq"
	"turnready/internal/profile"
	"turnready/internal/property"
	"turnready/internal/review"
	"turnready/internal/session"
)

func main() {
	// Local development convenience; the file is absent in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	// Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	migrationsPath := getMigrationsPath()
	if err := db.MigrateUp(migrationsPath); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	version, dirty, err := db.MigrateVersion(migrationsPath)
	switch {
	case err != nil:
		logger.Warn("failed to get migration version", slog.Any("error", err))
	case dirty:
		logger.Warn("database is in dirty state, manual intervention required",
			slog.Uint64("version", uint64(version)))
	default:
		logger.Info("database migrations complete", slog.Uint64("version", uint64(version)))
	}

	// Redis backs live sessions.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("redis connection established")

	// Identity provider and session plumbing.
	sessions := authn.NewRedisSessionBackend(redisClient)
	tokens := authn.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	provider := authn.NewProvider(authn.NewDatastore(db.DB), sessions, tokens, cfg.Auth.SessionTTL, logger)

	// Managers
	profiles := profile.NewManager(profile.NewDatastore(db.DB))
	properties := property.NewManager(property.NewDatastore(db.DB))
	jobs := job.NewManager(job.NewDatastore(db.DB), properties)
	partRequests := partreq.NewManager(partreq.NewDatastore(db.DB), jobs)
	reviews := review.NewManager(review.NewDatastore(db.DB), jobs)

	// Observability and throttling.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	guard := gate.NewGuard(provider, instrumentedLoader(profiles, collector), logger)
	guard.SetMetrics(collector)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0),
		Burst:           cfg.RateLimit.Burst,
		CleanupInterval: 5 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:             logger,
		Guard:              guard,
		RateLimiter:        rateLimiter,
		Metrics:            collector,
		Gatherer:           registry,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Auth:               handler.NewAuthHandler(provider, cfg.Auth.SessionTTL, cfg.SecureCookies(), collector),
		Me:                 handler.NewMeHandler(profiles),
		Properties:         handler.NewPropertiesHandler(properties),
		Jobs:               handler.NewJobsHandler(jobs),
		PartRequests:       handler.NewPartRequestsHandler(partRequests),
		Reviews:            handler.NewReviewsHandler(reviews),
		Admin:              handler.NewAdminHandler(profiles),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("env", cfg.Environment))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info("initiating graceful shutdown", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed, forcing", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("forced shutdown failed", slog.Any("error", err))
				os.Exit(1)
			}
		}

		logger.Info("server shutdown complete")
	}
}

// instrumentedLoader wraps profile loading with a result counter.
func instrumentedLoader(profiles *profile.Manager, collector *metrics.Collector) session.Loader {
	return session.LoaderFunc(func(ctx context.Context, identityID uuid.UUID) (*profile.Profile, error) {
		p, err := profiles.GetByIdentity(ctx, identityID)
		switch {
		case err == nil:
			collector.RecordProfileLoad("ok")
		case errors.Is(err, profile.ErrNotFound):
			collector.RecordProfileLoad("missing")
		default:
			collector.RecordProfileLoad("error")
		}
		return p, err
	})
}

// newLogger builds the process logger: JSON in production, text for
// local development.
func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// getMigrationsPath locates the migrations directory: env override
// first, then the working directory, then next to the executable.
func getMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}

	if _, err := os.Stat("migrations"); err == nil {
		absPath, _ := filepath.Abs("migrations")
		return absPath
	}

	execPath, err := os.Executable()
	if err == nil {
		migrationsPath := filepath.Join(filepath.Dir(execPath), "migrations")
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath
		}
	}

	return "/app/migrations"
}
