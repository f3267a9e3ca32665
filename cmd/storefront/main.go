package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/oklog/ulid/v2"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/handlers"
	"github.com/buildquick/storefront/internal/platform/config"
	"github.com/buildquick/storefront/internal/platform/idempotency"
	"github.com/buildquick/storefront/internal/platform/observability"
	"github.com/buildquick/storefront/internal/repositories"
	"github.com/buildquick/storefront/internal/repositories/memory"
	redisrepo "github.com/buildquick/storefront/internal/repositories/redis"
	"github.com/buildquick/storefront/internal/services"
	upstreamcatalog "github.com/buildquick/storefront/internal/upstream/catalog"
	upstreamestimator "github.com/buildquick/storefront/internal/upstream/estimator"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	sessionRepo, err := newSessionRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise session repository", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sessionRepo.Close(closeCtx); err != nil {
			logger.Warn("session repository close error", zap.Error(err))
		}
	}()

	catalogRepo := memory.NewCatalogRepository(domain.DefaultCatalog(), domain.DefaultCategoryGroups())

	catalogClient, err := upstreamcatalog.NewClient(upstreamcatalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		Logger:  logger.Named("catalog_backend"),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog client", zap.Error(err))
	}

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Repository:      catalogRepo,
		Upstream:        catalogClient,
		RefreshPageSize: cfg.Catalog.RefreshPageSize,
		Logger:          eventLogger(logger.Named("catalog")),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	sessionService, err := services.NewSessionService(services.SessionServiceDeps{
		Repository:  sessionRepo,
		Catalog:     catalogService,
		Clock:       time.Now,
		IDGenerator: func() string { return ulid.Make().String() },
		Logger:      eventLogger(logger.Named("session")),
	})
	if err != nil {
		logger.Fatal("failed to initialise session service", zap.Error(err))
	}

	sessionHandlers := handlers.NewSessionHandlers(sessionService)
	catalogHandlers := handlers.NewCatalogHandlers(catalogService)

	idempotencyStore := idempotency.NewMemoryStore()
	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	projectID := strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(projectID),
		idempotencyMiddleware,
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthStartedAt(startedAt),
		handlers.WithReadinessCheck("sessions", sessionReadiness(sessionRepo)),
		handlers.WithReadinessCheck("catalog", catalogReadiness(catalogRepo)),
	)

	opts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithSessionRoutes(sessionHandlers.Routes),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
	}

	if cfg.Features.EnableEstimator {
		estimatorClient := upstreamestimator.NewClient(upstreamestimator.Config{
			APIKey:      cfg.Estimator.APIKey,
			BaseURL:     cfg.Estimator.BaseURL,
			Model:       cfg.Estimator.Model,
			MaxTokens:   cfg.Estimator.MaxTokens,
			Temperature: float32(cfg.Estimator.Temperature),
			Timeout:     cfg.Estimator.Timeout,
			Logger:      logger.Named("estimator_backend"),
		})
		estimatorService, err := services.NewEstimatorService(services.EstimatorServiceDeps{
			Generator: estimatorClient,
			Logger:    eventLogger(logger.Named("estimator")),
		})
		if err != nil {
			logger.Fatal("failed to initialise estimator service", zap.Error(err))
		}
		estimateHandlers := handlers.NewEstimateHandlers(estimatorService)
		opts = append(opts, handlers.WithEstimateRoutes(estimateHandlers.Routes))
	} else {
		logger.Info("estimator disabled; estimate routes will answer 501")
	}

	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	var refreshWG sync.WaitGroup

	cleanupTicker := time.NewTicker(time.Hour)
	refreshWG.Add(1)
	go func() {
		defer refreshWG.Done()
		cleanupLogger := logger.Named("idempotency")
		for {
			select {
			case <-cleanupTicker.C:
				runCtx, cancel := context.WithTimeout(refreshCtx, time.Minute)
				removed, err := idempotencyStore.CleanupExpired(runCtx, time.Now().UTC(), 500)
				cancel()
				if err != nil {
					cleanupLogger.Error("idempotency cleanup error", zap.Error(err))
					continue
				}
				if removed > 0 {
					cleanupLogger.Info("idempotency cleanup removed records", zap.Int("count", removed))
				}
			case <-refreshCtx.Done():
				return
			}
		}
	}()

	var refreshTicker *time.Ticker
	if cfg.Features.EnableCatalogRefresh {
		refreshLogger := logger.Named("catalog_refresh")
		runRefresh := func() {
			runCtx, cancel := context.WithTimeout(refreshCtx, 2*time.Minute)
			defer cancel()
			if err := catalogService.Refresh(runCtx); err != nil {
				refreshLogger.Warn("catalog refresh failed", zap.Error(err))
			}
		}

		refreshWG.Add(1)
		go func() {
			defer refreshWG.Done()
			runRefresh()
		}()

		if cfg.Catalog.RefreshInterval > 0 {
			refreshTicker = time.NewTicker(cfg.Catalog.RefreshInterval)
			refreshWG.Add(1)
			go func() {
				defer refreshWG.Done()
				for {
					select {
					case <-refreshTicker.C:
						runRefresh()
					case <-refreshCtx.Done():
						return
					}
				}
			}()
		}
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("buildquick storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	cleanupTicker.Stop()
	if refreshTicker != nil {
		refreshTicker.Stop()
	}
	refreshCancel()
	refreshWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newSessionRepository selects Redis-backed sessions when a URL is configured
// and falls back to the in-process store otherwise.
func newSessionRepository(ctx context.Context, cfg config.Config) (repositories.SessionRepository, error) {
	if url := strings.TrimSpace(cfg.Session.RedisURL); url != "" {
		return redisrepo.NewSessionRepository(ctx, url, cfg.Session.TTL)
	}
	return memory.NewSessionRepository(), nil
}

func sessionReadiness(repo repositories.SessionRepository) handlers.ReadinessCheck {
	return func(ctx context.Context) error {
		// A miss on the probe key still proves the store is reachable.
		_, err := repo.Get(ctx, "readyz-probe")
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return nil
		}
		return err
	}
}

func catalogReadiness(repo repositories.CatalogRepository) handlers.ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := repo.Products(ctx)
		return err
	}
}

func eventLogger(logger *zap.Logger) func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Debug("service log", zFields...)
	}
}
