// Package postgres stores scoped key-value pairs in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_store (
    scope TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (scope, key)
);
`

// Config holds PostgreSQL-specific configuration.
type Config struct {
	DatabaseURL  string
	SSLEnabled   bool
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
}

// Store is a KV backed by a PostgreSQL table.
type Store struct {
	db *sql.DB
}

// Open connects, applies pool settings and creates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required for PostgreSQL storage")
	}

	db, err := sql.Open("postgres", withSSLMode(cfg.DatabaseURL, cfg.SSLEnabled))
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// withSSLMode adds sslmode to dsn unless it is already there. URL DSNs get a
// query parameter; key=value DSNs get another pair.
func withSSLMode(dsn string, sslEnabled bool) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	mode := "sslmode=disable"
	if sslEnabled {
		mode = "sslmode=require"
	}
	if u, err := url.Parse(dsn); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		switch {
		case strings.HasSuffix(dsn, "?"):
			return dsn + mode
		case u.RawQuery == "":
			return dsn + "?" + mode
		}
		return dsn + "&" + mode
	}
	return strings.TrimSpace(dsn) + " " + mode
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE scope = $1 AND key = $2`, scope, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	const query = `
		INSERT INTO kv_store (scope, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, scope, key, value); err != nil {
		return fmt.Errorf("set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
