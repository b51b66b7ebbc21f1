package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/adapters/cache"
	"github.com/yangonbites/platform/internal/adapters/database"
	"github.com/yangonbites/platform/internal/adapters/events"
	"github.com/yangonbites/platform/internal/adapters/memory"
	"github.com/yangonbites/platform/internal/api/handlers"
	"github.com/yangonbites/platform/internal/api/middleware"
	"github.com/yangonbites/platform/internal/api/routes"
	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/providers"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	"github.com/yangonbites/platform/internal/infrastructure/clients/redis"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	"github.com/yangonbites/platform/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Persistence
	var uow repositories.UnitOfWork
	switch cfg.Store.Driver {
	case "memory":
		uow = memory.NewStore()
		log.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		pgUOW := database.NewUnitOfWork(pgClient)
		pgUOW.SetMetrics(metrics)
		uow = pgUOW
	}

	// Realtime feed and unread-count cache
	var (
		eventBus      providers.EventBus
		cacheProvider providers.CacheProvider
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; using in-process event bus without cache")
		} else {
			defer redisClient.Close()
			eventBus = events.NewRedisEventBus(redisClient, cfg.Notifications.StreamBufferSize)
			cacheProvider = cache.NewRedisAdapter(redisClient)
		}
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus(cfg.Notifications.StreamBufferSize)
	}

	// Services
	generator := services.NewNotificationGenerator()
	generator.SetMetrics(metrics)

	feed := services.NewNotificationFeed(eventBus, cacheProvider)
	feed.SetMetrics(metrics)

	commentService := services.NewCommentService(uow, generator, feed)
	orderService := services.NewOrderService(uow, generator, feed)
	ratingService := services.NewRatingService(uow, services.NewRatingAggregator())

	notificationService := services.NewNotificationService(uow.Repos(), cacheProvider, cfg.Notifications)
	notificationService.SetMetrics(metrics)

	// Handlers
	router := routes.NewRouter(
		handlers.NewCommentHandler(commentService),
		handlers.NewOrderHandler(orderService),
		handlers.NewRatingHandler(ratingService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewSSEHandler(eventBus, time.Duration(cfg.Notifications.StreamHeartbeatSecs)*time.Second),
		middleware.ParseAllowedOrigins(cfg.App.AllowedOrigins),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// event streams stay open, so writes are not bounded by the server
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// cancelling the base context ends open event streams
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}

	log.Info().Msg("server stopped")
}
