// Package datastore provides PostgreSQL access for the TTS evaluation platform.
//
// Each entity has a *_model.go file with its row struct and a *_store.go file
// with the queries that operate on it. All queries go through a shared Store
// wrapping a database/sql pool with the pq driver.
package datastore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/migrations"
)

// Store wraps the database connection pool and exposes repository methods for
// all entities.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db, logger: logger.With().Str("component", "datastore").Logger()}, nil
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	s.logger.Info().Msg("schema migrations applied")
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
