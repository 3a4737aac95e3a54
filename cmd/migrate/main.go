package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/config"
	"github.com/pageza/healthdiary/backend/internal/database"
	"github.com/pageza/healthdiary/backend/internal/logging"
)

// migrate creates or updates the schema without starting the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// New applies migrations before returning.
	db, err := database.New(cfg, log.Named("database"))
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		log.Fatal("failed to list tables", zap.Error(err))
	}
	log.Info("migrations applied", zap.Strings("tables", tables))
}
