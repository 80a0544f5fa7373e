package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/safetyid/safetyid-console/internal/app"
	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/catalog"
	"github.com/safetyid/safetyid-console/internal/companies"
	"github.com/safetyid/safetyid-console/internal/editions"
	"github.com/safetyid/safetyid-console/internal/observability"
	"github.com/safetyid/safetyid-console/internal/platform/cache"
	"github.com/safetyid/safetyid-console/internal/platform/db"
	"github.com/safetyid/safetyid-console/internal/safetyids"
	"github.com/safetyid/safetyid-console/internal/users"
	"github.com/safetyid/safetyid-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPingTimeout)
	if err != nil {
		// Catalog caching degrades to direct reads without Redis.
		logger.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogCache := catalog.NewCache(redisClient, cfg.CatalogCacheTTL)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.Guard{Tokens: tokens, Logger: logger}
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService)

	editionRepo := editions.NewRepository(dbpool)
	editionService := editions.NewService(editionRepo, catalogCache)
	editionHandler := editions.NewHandler(logger, editionService, guard)

	companyRepo := companies.NewRepository(dbpool)
	companyService := companies.NewService(companyRepo, catalogCache)
	companyHandler := companies.NewHandler(logger, companyService, guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo, users.ServiceCatalogs{
		EditionSvc: editionService,
		CompanySvc: companyService,
	}, jobClient, logger)
	userHandler := users.NewHandler(logger, userService, guard)

	sidRepo := safetyids.NewRepository(dbpool)
	sidService := safetyids.NewService(sidRepo, jobClient, logger)
	sidHandler := safetyids.NewHandler(logger, sidService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Guard:            guard,
		AuthHandler:      authHandler,
		EditionsHandler:  editionHandler,
		CompaniesHandler: companyHandler,
		UsersHandler:     userHandler,
		SafetyIDHandler:  sidHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
