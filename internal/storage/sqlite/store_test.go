package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "scope", "key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "scope", "key", "first"))
	require.NoError(t, s.Set(ctx, "scope", "key", "second"))
	require.NoError(t, s.Set(ctx, "other", "key", "elsewhere"))

	v, ok, err := s.Get(ctx, "scope", "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err = reopened.Get(ctx, "other", "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "elsewhere", v)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
