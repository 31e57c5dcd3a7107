// Bootstrap provisions the backing stores for one environment: it waits for
// PostgreSQL and Redis to become ready (bounded poll), applies the schema
// migrations, and optionally seeds question documents from SEED_DIR. The
// whole procedure is safe to run more than once.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/bookquiz/bookquiz-backend/internal/config"
	"github.com/bookquiz/bookquiz-backend/internal/database"
	"github.com/bookquiz/bookquiz-backend/internal/logger"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
	"github.com/bookquiz/bookquiz-backend/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	// ─── 1. Wait for backends ──────────────────────────────────────────
	if err := database.WaitForBackends(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Backends did not become ready")
	}

	// ─── 2. Apply migrations ───────────────────────────────────────────
	m, err := migrate.New("file://migrations", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Schema up to date")

	// ─── 3. Seed question documents (optional, non-fatal) ──────────────
	if cfg.SeedDir == "" {
		log.Info().Msg("SEED_DIR not set, skipping question seeding")
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)
	stored, skipped, err := seed.Load(ctx, questionRepo, cfg.SeedDir, log)
	if err != nil {
		// Sample data is a convenience; its absence must not block bootstrap.
		log.Warn().Err(err).Msg("Question seeding failed")
		return
	}

	log.Info().
		Int("stored", stored).
		Int("skipped", skipped).
		Str("dir", cfg.SeedDir).
		Msg("Question seeding complete")
}
