package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print pending migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		migrations, err := postgres.Migrations()
		if err != nil {
			logger.Fatalw("Failed to read migrations", "error", err)
		}
		for _, m := range migrations {
			fmt.Printf("-- %s\n%s\n", m.Version, m.SQL)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	applied, err := postgres.Migrate(ctx, db, logger)
	if err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err)
	}
	logger.Infow("Migration completed successfully", "applied", applied)
}
