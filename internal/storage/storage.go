// Package storage provides the small scoped key-value store that backs
// generation history. A scope plays the part of one browser's local storage;
// keys inside it are fixed identifiers such as the history key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristianadrielbraun/qrstudio/internal/storage/file"
	"github.com/cristianadrielbraun/qrstudio/internal/storage/postgres"
	"github.com/cristianadrielbraun/qrstudio/internal/storage/sqlite"
)

// ErrQuotaExceeded is returned by Set when a value is larger than the
// configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KV is a string key-value store partitioned by scope.
type KV interface {
	// Get returns the value stored under (scope, key). ok is false when nothing
	// is stored there.
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	// Set replaces the value stored under (scope, key).
	Set(ctx context.Context, scope, key, value string) error
	Close() error
}

// Config selects and tunes a backend.
type Config struct {
	Type         string // "memory", "file", "sqlite", "postgres"
	Path         string // file or sqlite database path
	DatabaseURL  string // postgres connection string
	SSLEnabled   bool
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
	QuotaBytes   int // 0 disables the quota
}

// DefaultConfig returns an in-memory store with a 5 MiB quota per value.
func DefaultConfig() Config {
	return Config{
		Type:         "memory",
		MaxIdleConns: 5,
		MaxOpenConns: 25,
		MaxLifetime:  5 * time.Minute,
		QuotaBytes:   5 << 20,
	}
}

// New opens the backend described by cfg. Database backends are connected and
// their schema is created before New returns.
func New(ctx context.Context, cfg Config) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		kv = NewMemory()
	case "file":
		kv, err = file.Open(cfg.Path)
	case "sqlite":
		kv, err = sqlite.Open(ctx, cfg.Path)
	case "postgres":
		kv, err = postgres.Open(ctx, postgres.Config{
			DatabaseURL:  cfg.DatabaseURL,
			SSLEnabled:   cfg.SSLEnabled,
			MaxIdleConns: cfg.MaxIdleConns,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxLifetime:  cfg.MaxLifetime,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: memory, file, sqlite, postgres)", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Type, err)
	}
	if cfg.QuotaBytes > 0 {
		kv = WithQuota(kv, cfg.QuotaBytes)
	}
	return kv, nil
}

type quotaKV struct {
	KV
	limit int
}

// WithQuota wraps kv so that Set rejects values longer than limit bytes with
// ErrQuotaExceeded, leaving the stored value untouched.
func WithQuota(kv KV, limit int) KV {
	return &quotaKV{KV: kv, limit: limit}
}

func (q *quotaKV) Set(ctx context.Context, scope, key, value string) error {
	if len(value) > q.limit {
		return fmt.Errorf("%w: %d bytes over a %d byte limit", ErrQuotaExceeded, len(value), q.limit)
	}
	return q.KV.Set(ctx, scope, key, value)
}
