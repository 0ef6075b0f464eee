// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/payping-app/backend/internal/activation"
	"github.com/payping-app/backend/internal/admin"
	"github.com/payping-app/backend/internal/auth"
	"github.com/payping-app/backend/internal/client"
	"github.com/payping-app/backend/internal/config"
	"github.com/payping-app/backend/internal/core"
	"github.com/payping-app/backend/internal/health"
	"github.com/payping-app/backend/internal/middleware"
	"github.com/payping-app/backend/internal/profile"
	"github.com/payping-app/backend/internal/reminder"
	"github.com/payping-app/backend/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "generate a JWT key pair and exit")
	flag.Parse()

	if *genKeys {
		if err := generateKeys(*configPath); err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func generateKeys(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := auth.GenerateKeyPair(
		cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath,
	); err != nil {
		return err
	}

	slog.Info("JWT key pair written",
		"private", cfg.JWT.PrivateKeyPath,
		"public", cfg.JWT.PublicKeyPath,
	)
	return nil
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return err
	}

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	profileRepo := profile.NewRepository(db.DB)
	profileSvc := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo, profileSvc, jwtManager, redis, cfg.JWT, logger,
	)
	authHandler := auth.NewHandler(authSvc)

	activationRepo := activation.NewRepository(db.DB)
	activationSvc := activation.NewService(activationRepo, logger)
	activationHandler := activation.NewHandler(activationSvc)

	clientRepo := client.NewRepository(db.DB)
	clientSvc := client.NewService(clientRepo, logger)
	clientHandler := client.NewHandler(clientSvc)

	reminderRepo := reminder.NewRepository(db.DB)
	reminderSvc := reminder.NewService(reminderRepo, clientSvc, location, logger)
	reminderHandler := reminder.NewHandler(reminderSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Business: businessStats{
			profiles:    profileSvc,
			activations: activationSvc,
		},
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	verifier := auth.NewRevocationVerifier(jwtManager, redis, logger)
	authenticator := middleware.Authenticator(verifier)
	adminOnly := middleware.RequireAdmin
	requireActive := middleware.RequireActive

	authLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			FailOpen: true,
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)

		profileHandler.RegisterRoutes(r, authenticator)
		profileHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		activationHandler.RegisterRoutes(r, authenticator)
		activationHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		clientHandler.RegisterRoutes(r, authenticator, requireActive)
		reminderHandler.RegisterRoutes(r, authenticator, requireActive)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	// Expired refresh tokens are dead weight; sweep them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, cleanErr := authSvc.CleanupExpiredTokens(ctx)
				if cleanErr != nil {
					logger.Warn("refresh token cleanup failed",
						"error", cleanErr,
					)
					continue
				}
				if deleted > 0 {
					logger.Info("expired refresh tokens deleted",
						"count", deleted,
					)
				}
			}
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// businessStats bridges the profile and activation services into the
// admin stats surface.
type businessStats struct {
	profiles    *profile.Service
	activations *activation.Service
}

func (b businessStats) ProfileCounts(
	ctx context.Context,
) (total, active int, err error) {
	return b.profiles.ProfileCounts(ctx)
}

func (b businessStats) PendingActivationCount(
	ctx context.Context,
) (int, error) {
	return b.activations.PendingCount(ctx)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
