// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/autobrr/sweeparr/internal/config"
	"github.com/autobrr/sweeparr/internal/types"
)

// DB is the remediation history store
type DB struct {
	*sql.DB
	driver string
	path   string

	squirrel sq.StatementBuilderType
}

// InitDB opens the history store and creates the schema. SQLite is the
// default; postgres is selected through the database configuration.
func InitDB(cfg config.DatabaseConfig) (*DB, error) {
	var (
		database *sql.DB
		err      error
	)

	if cfg.Type == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		log.Debug().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Name).
			Msg("Initializing PostgreSQL database")

		// Retry loop with backoff; postgres may still be starting alongside us
		maxRetries := 5
		baseDelay := time.Second
		for attempt := 1; attempt <= maxRetries; attempt++ {
			database, err = sql.Open("postgres", dsn)
			if err == nil {
				err = database.Ping()
				if err == nil {
					break
				}
			}

			if attempt == maxRetries {
				return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
			}

			delay := time.Duration(attempt) * baseDelay
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying database connection")
			time.Sleep(delay)
		}
	} else {
		dbDir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, err
		}

		database, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}

		if err := database.Ping(); err != nil {
			return nil, fmt.Errorf("error creating database file: %w", err)
		}

		if err := os.Chmod(cfg.Path, 0640); err != nil {
			return nil, fmt.Errorf("error setting database file permissions: %w", err)
		}
		log.Debug().
			Str("path", cfg.Path).
			Msg("Initializing SQLite database")
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)

	log.Info().
		Str("driver", driverName(cfg.Type)).
		Msg("Successfully connected to database")

	db := &DB{
		DB:     database,
		driver: driverName(cfg.Type),
		path:   cfg.Path,
		// dollar placeholders work for both sqlite and postgres
		squirrel: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}

	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return db, nil
}

func driverName(configured string) string {
	if configured == "postgres" {
		return "postgres"
	}
	return "sqlite"
}

// Path returns the database file path (for SQLite)
func (db *DB) Path() string {
	return db.path
}

// initSchema creates the necessary database tables
func (db *DB) initSchema() error {
	var autoIncrement string
	if db.driver == "postgres" {
		autoIncrement = "BIGSERIAL"
	} else {
		autoIncrement = "INTEGER"
	}

	_, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS remediation_history (
			id %s PRIMARY KEY,
			backend TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			strikes INTEGER NOT NULL,
			searched BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, autoIncrement))
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_remediation_history_created_at
		ON remediation_history (created_at)`)
	return err
}

// Record appends one remediation to the history
func (db *DB) Record(ctx context.Context, rec types.RemediationRecord) error {
	queryBuilder := db.squirrel.Insert("remediation_history").
		Columns("backend", "item_id", "title", "category", "strikes", "searched", "created_at").
		Values(rec.Backend, rec.ItemID, rec.Title, rec.Category, rec.Strikes, rec.Searched, rec.CreatedAt)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// ListRemediations returns the most recent remediations, newest first
func (db *DB) ListRemediations(ctx context.Context, limit int) ([]types.RemediationRecord, error) {
	queryBuilder := db.squirrel.
		Select("id", "backend", "item_id", "title", "category", "strikes", "searched", "created_at").
		From("remediation_history").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var records []types.RemediationRecord
	for rows.Next() {
		var rec types.RemediationRecord
		if err := rows.Scan(&rec.ID, &rec.Backend, &rec.ItemID, &rec.Title, &rec.Category,
			&rec.Strikes, &rec.Searched, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
