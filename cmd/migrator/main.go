package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
	"github.com/gokatarajesh/flagquiz/internal/config"
	"github.com/gokatarajesh/flagquiz/internal/db/queries"
	"github.com/gokatarajesh/flagquiz/internal/db/repository"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, or seed")
		dir     = flag.String("dir", "db/migrations", "Directory containing migration files")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	var pg config.Postgres
	if err := env.Parse(&pg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse database configuration")
	}
	if pg.Password == "" {
		log.Fatal().Msg("PG_PASSWORD environment variable is required")
	}

	if *command == "seed" {
		if err := seed(pg); err != nil {
			log.Fatal().Err(err).Msg("failed to seed countries")
		}
		return
	}

	migrationDir, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to resolve migration directory")
	}
	if _, err := os.Stat(migrationDir); os.IsNotExist(err) {
		log.Fatal().Str("dir", migrationDir).Msg("migration directory does not exist")
	}

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Str("migration_dir", migrationDir).
		Msg("connected to database")

	goose.SetBaseFS(nil)
	goose.SetTableName("goose_db_version")

	switch *command {
	case "up":
		if err := goose.Up(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := goose.Down(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "status":
		if err := goose.Status(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}

	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, status, or seed")
	}
}

// seed upserts the bundled country list into an already migrated database.
func seed(pg config.Postgres) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cat, err := catalog.NewEmbeddedSource().Load(ctx)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, pg.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	rows := make([]queries.UpsertCountryParams, 0, cat.Len())
	for _, c := range cat.All() {
		rows = append(rows, queries.UpsertCountryParams{
			Position: int32(c.ID),
			Code:     c.Code,
			Name:     c.Name,
			Flag:     c.Flag,
		})
	}
	removed, err := repository.ImportCountries(ctx, pool, rows)
	if err != nil {
		return err
	}

	count, err := repository.NewCountryRepository(queries.New(pool)).Count(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("bundled", len(rows)).
		Int64("removed", removed).
		Int64("stored", count).
		Msg("countries seeded")
	return nil
}
