package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, cfg := range []Config{
		{Type: "memory"},
		{Type: ""},
		{Type: "file", Path: filepath.Join(dir, "kv.json")},
		{Type: "sqlite", Path: filepath.Join(dir, "kv.db")},
	} {
		t.Run(cfg.Type, func(t *testing.T) {
			kv, err := New(ctx, cfg)
			require.NoError(t, err)
			defer kv.Close()

			require.NoError(t, kv.Set(ctx, "s", "k", "v"))
			v, ok, err := kv.Get(ctx, "s", "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", v)
		})
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "redis"})
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestQuota(t *testing.T) {
	ctx := context.Background()
	kv := WithQuota(NewMemory(), 10)

	require.NoError(t, kv.Set(ctx, "s", "k", "short"))
	err := kv.Set(ctx, "s", "k", strings.Repeat("x", 11))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	v, _, err := kv.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.Equal(t, "short", v)
}

func TestNewAppliesQuota(t *testing.T) {
	ctx := context.Background()
	kv, err := New(ctx, Config{Type: "memory", QuotaBytes: 4})
	require.NoError(t, err)
	assert.ErrorIs(t, kv.Set(ctx, "s", "k", "12345"), ErrQuotaExceeded)
}

func TestMemoryScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "a", "k", "1"))
	_, ok, err := m.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.False(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.Set(cancelled, "a", "k", "2"), context.Canceled)
}
