package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/config"
	"github.com/Rrens/quackbot/internal/logger"
	"github.com/Rrens/quackbot/internal/repository/postgres"
	"github.com/Rrens/quackbot/internal/repository/redis"
	"github.com/Rrens/quackbot/internal/source/jsonfile"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	seed := flag.String("seed", "", "JSON catalog file to load into the companies table after migrating")
	flushReplies := flag.Bool("flush-replies", false, "drop cached responder replies, e.g. after reseeding")
	flag.Parse()

	// Load .env file if it exists
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

	dsn := cfg.Database.DSN()
	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("source", cfg.Database.MigrationsPath).
		Msg("Connecting to database")

	if *down > 0 {
		if err := postgres.RollbackMigrations(dsn, cfg.Database.MigrationsPath, *down); err != nil {
			log.Fatal().Err(err).Msg("Rollback failed")
		}
		return
	}

	if err := postgres.RunMigrations(dsn, cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	if *seed != "" {
		seedCatalog(cfg, *seed)
	}

	if *flushReplies {
		flushReplyCache(cfg)
	}
}

// seedCatalog replaces the companies table with the records of a JSON catalog file
func seedCatalog(cfg *config.Config, seed string) {
	data, err := os.ReadFile(seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read seed file")
	}
	companies, err := jsonfile.Decode(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode seed file")
	}
	if _, err := catalog.NewStore(companies); err != nil {
		log.Fatal().Err(err).Msg("Seed file is not a valid catalog")
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	repo := postgres.NewCompanyRepository(db)
	if err := repo.ReplaceAll(ctx, companies); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed companies")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count companies")
	}
	log.Info().Int("companies", count).Str("file", seed).Msg("Catalog seeded")
}

// flushReplyCache drops every reply the responder cached in Redis
func flushReplyCache(cfg *config.Config) {
	if !cfg.Redis.Enabled {
		log.Warn().Msg("Redis disabled, no reply cache to flush")
		return
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer client.Close()

	deleted, err := redis.NewReplyCache(client, cfg.Responder.ReplyCacheTTL).FlushAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to flush reply cache")
	}
	log.Info().Int64("deleted", deleted).Msg("Reply cache flushed")
}
