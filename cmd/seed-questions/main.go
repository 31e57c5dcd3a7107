// Seed-questions loads question documents from a local
// questions/{bookSource}/{questionId}.json tree into the repository.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bookquiz/bookquiz-backend/internal/config"
	"github.com/bookquiz/bookquiz-backend/internal/database"
	"github.com/bookquiz/bookquiz-backend/internal/logger"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
	"github.com/bookquiz/bookquiz-backend/internal/seed"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "Directory containing a questions/ tree (defaults to SEED_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if dir == "" {
		dir = cfg.SeedDir
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "no seed directory: pass -dir or set SEED_DIR")
		os.Exit(1)
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)
	stored, skipped, err := seed.Load(ctx, questionRepo, dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().Int("stored", stored).Int("skipped", skipped).Msg("Seeding complete")
}
