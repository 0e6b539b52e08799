package session

import (
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetOrCreate(t *testing.T) {
	m := NewManager(time.Hour, quietLogger())

	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := m.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestGetOrCreateRevivesWellFormedID(t *testing.T) {
	m := NewManager(time.Minute, quietLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s, _ := m.GetOrCreate("")
	now = now.Add(time.Hour)

	revived, created := m.GetOrCreate(s.ID)
	assert.True(t, created)
	assert.Equal(t, s.ID, revived.ID)
	assert.NotSame(t, s, revived)
}

func TestSessionsExpire(t *testing.T) {
	m := NewManager(time.Minute, quietLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s, _ := m.GetOrCreate("")
	now = now.Add(30 * time.Second)
	_, ok := m.Get(s.ID)
	require.True(t, ok, "access within the TTL keeps the session alive")

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestSessionState(t *testing.T) {
	m := NewManager(0, quietLogger())
	s, _ := m.GetOrCreate("")

	assert.Nil(t, s.Logo())
	logo := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s.SetLogo(logo, "data:image/png;base64,xx")
	assert.Equal(t, logo, s.Logo())
	assert.Equal(t, "data:image/png;base64,xx", s.LogoPreview())
	s.ClearLogo()
	assert.Nil(t, s.Logo())
	assert.Empty(t, s.LogoPreview())

	_, _, ok := s.Last()
	assert.False(t, ok)
	_, ok = s.Current()
	assert.False(t, ok)

	opts := render.DefaultOptions()
	s.Remember("hello", opts, []byte{1, 2, 3})
	text, gotOpts, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "hello", text)
	assert.Equal(t, opts, gotOpts)
	png, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, png)

	s.ClearCurrent()
	_, ok = s.Current()
	assert.False(t, ok)
	_, _, ok = s.Last()
	assert.True(t, ok, "the last request survives a cleared display")
}
