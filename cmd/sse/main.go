package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/adapters/events"
	"github.com/yangonbites/platform/internal/api/handlers"
	"github.com/yangonbites/platform/internal/api/middleware"
	"github.com/yangonbites/platform/internal/infrastructure/clients/redis"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	"github.com/yangonbites/platform/pkg/config"
)

// Standalone realtime feed server. It serves only the notification streams and
// relies on Redis to receive events published by the API process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-sse", cfg.App.Env, cfg.App.LogLevel)

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis is required: without it this process would never see an event
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient, cfg.Notifications.StreamBufferSize)
	sseHandler := handlers.NewSSEHandler(eventBus, time.Duration(cfg.Notifications.StreamHeartbeatSecs)*time.Second)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	streams := map[string]http.HandlerFunc{
		"GET /api/stream/customers/{id}/notifications":   sseHandler.StreamCustomerNotifications,
		"GET /api/stream/restaurants/{id}/notifications": sseHandler.StreamRestaurantNotifications,
	}
	for pattern, handler := range streams {
		mux.Handle(pattern, middleware.ObservabilityMiddleware(metrics, pattern)(handler))
	}

	mux.HandleFunc("GET /api/stream/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"connected_clients": sseHandler.GetClientCount()})
	})

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(middleware.ParseAllowedOrigins(cfg.App.AllowedOrigins))(handler)
	handler = middleware.RecoverMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	// streams never go idle on their own; close them before Shutdown waits
	server.RegisterOnShutdown(func() {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	})

	go func() {
		log.Info().Str("addr", serverAddr).Msg("SSE server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("SSE server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("SSE server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("SSE server stopped")
}
