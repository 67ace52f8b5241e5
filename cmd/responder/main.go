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

	"github.com/Rrens/quackbot/internal/config"
	"github.com/Rrens/quackbot/internal/llm"
	"github.com/Rrens/quackbot/internal/llm/anthropic"
	"github.com/Rrens/quackbot/internal/llm/gemini"
	"github.com/Rrens/quackbot/internal/llm/ollama"
	"github.com/Rrens/quackbot/internal/llm/openai"
	"github.com/Rrens/quackbot/internal/logger"
	"github.com/Rrens/quackbot/internal/repository/redis"
	"github.com/Rrens/quackbot/internal/responder"
	"github.com/Rrens/quackbot/internal/source/builtin"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logFile, err := logger.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup logger")
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalogService, err := builtin.LoadCatalog(ctx, cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		log.Info().Str("base_url", cfg.LLM.OpenAI.BaseURL).Msg("Registering OpenAI provider")
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, cfg.LLM.OpenAI.BaseURL))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}

	configured := llmRouter.ListProviders()
	if len(configured) == 0 {
		log.Warn().Msg("No LLM provider is configured, every chat request will fail")
	} else {
		log.Info().Strs("providers", configured).Msg("LLM providers ready")
	}

	opts := responder.Options{TopK: cfg.Responder.TopK}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		opts.Cache = redis.NewReplyCache(redisClient, cfg.Responder.ReplyCacheTTL)
	}

	service := responder.NewService(catalogService, llmRouter, opts)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Responder.Host, cfg.Responder.Port),
		Handler:      responder.NewRouter(responder.NewHandler(service, catalogService.Store(), llmRouter)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("provider", llmRouter.DefaultProvider()).
			Int("companies", catalogService.Store().Len()).
			Msgf("Responder listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Responder failed")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down responder...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Responder forced to shutdown")
	}

	log.Info().Msg("Responder stopped")
}
