package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Rrens/quackbot/internal/api"
	"github.com/Rrens/quackbot/internal/api/handler"
	customMiddleware "github.com/Rrens/quackbot/internal/api/middleware"
	"github.com/Rrens/quackbot/internal/chat"
	"github.com/Rrens/quackbot/internal/config"
	"github.com/Rrens/quackbot/internal/logger"
	"github.com/Rrens/quackbot/internal/repository/redis"
	"github.com/Rrens/quackbot/internal/responder"
	"github.com/Rrens/quackbot/internal/source/builtin"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logFile, err := logger.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup logger")
	}
	defer logFile.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("Starting QuackBot server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load catalog
	catalogService, err := builtin.LoadCatalog(ctx, cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// Responder client and chat relay
	responderClient := responder.NewClient(cfg.Responder.BaseURL, cfg.Responder.Timeout)
	defer responderClient.Close()
	relay := chat.NewRelay(responderClient, cfg.Responder.Timeout)
	controller := chat.NewController(catalogService, relay)

	// Rate limiter: redis when enabled, otherwise in-process
	deps := api.Deps{
		Catalog:    catalogService,
		Controller: controller,
		Ready:      map[string]handler.Pinger{},
	}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		deps.Limiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		deps.Ready["redis"] = redisClient
	} else {
		log.Warn().Msg("Redis disabled, using in-process rate limiter")
		deps.Limiter = customMiddleware.NewLocalLimiter(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		if err := relay.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Cancelled in-flight chat requests")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}

	log.Info().Msg("Server stopped")
}
