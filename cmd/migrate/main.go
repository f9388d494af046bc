package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/migrations"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate [up|down]"

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	if err := run(os.Args[1:], cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(args []string, dsn string) error {
	if len(args) != 1 || (args[0] != "up" && args[0] != "down") {
		return errors.New(usage)
	}
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating postgres driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if args[0] == "up" {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("applying migrations: %w", err)
		}
		log.Info().Msg("Migrations applied successfully")
		return nil
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	log.Info().Msg("Migrations rolled back successfully")
	return nil
}
