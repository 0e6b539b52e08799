package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSSLMode(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db?sslmode=disable", withSSLMode("postgres://u@h/db", false))
	assert.Equal(t, "postgres://u@h/db?x=1&sslmode=require", withSSLMode("postgres://u@h/db?x=1", true))
	assert.Equal(t, "postgres://u@h/db?sslmode=verify-full", withSSLMode("postgres://u@h/db?sslmode=verify-full", false))
	assert.Equal(t, "postgresql://u:p%40ss@h:5433/db?sslmode=disable", withSSLMode("postgresql://u:p%40ss@h:5433/db", false))
}

func TestWithSSLModeKeyValueDSN(t *testing.T) {
	assert.Equal(t, "host=db dbname=qr user=app sslmode=disable", withSSLMode("host=db dbname=qr user=app", false))
	assert.Equal(t, "host=db dbname=qr sslmode=require", withSSLMode("host=db dbname=qr  ", true))
	assert.Equal(t, "host=db sslmode=verify-ca", withSSLMode("host=db sslmode=verify-ca", true))
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("QRSTUDIO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("QRSTUDIO_TEST_POSTGRES_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, Config{DatabaseURL: url})
	require.NoError(t, err)
	defer s.Close()

	scope := fmt.Sprintf("test-%d", time.Now().UnixNano())
	_, ok, err := s.Get(ctx, scope, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, scope, "k", "one"))
	require.NoError(t, s.Set(ctx, scope, "k", "two"))
	v, ok, err := s.Get(ctx, scope, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}
