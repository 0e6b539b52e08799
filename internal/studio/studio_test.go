package studio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstudio/internal/history"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
	"github.com/cristianadrielbraun/qrstudio/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStudio(t *testing.T, kv storage.KV) *Studio {
	t.Helper()
	enc, err := render.New("yeqown")
	require.NoError(t, err)
	return New(enc, history.New(kv, quietLogger()), render.DefaultOptions(), quietLogger())
}

func request(text string) Request {
	return Request{Text: text, Options: render.DefaultOptions()}
}

func logoPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{200, 30, 30, 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateURL(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s1")

	res, err := st.Generate(ctx, sess, request("https://example.com"))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", res.Text)
	assert.True(t, res.URL)
	assert.False(t, res.PrivacyWarning)
	assert.True(t, res.Scannable)
	assert.NoError(t, res.HistoryErr)
	require.Len(t, res.History, 1)
	assert.Equal(t, "https://example.com", res.History[0].Text)
	assert.Equal(t, res.DataURL, res.History[0].ImageData)
	assert.Equal(t, history.Options{DotColor: "#000000", BackgroundColor: "#ffffff", Size: 256, Level: "M"}, res.History[0].Options)

	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	current, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, res.PNG, current)
}

func TestGenerateAddsScheme(t *testing.T) {
	st := newStudio(t, storage.NewMemory())
	res, err := st.Generate(context.Background(), session.New("s"), request("  example.com/path "))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", res.Text)
	assert.Equal(t, "https://example.com/path", res.History[0].Text)
}

func TestGenerateSensitiveText(t *testing.T) {
	st := newStudio(t, storage.NewMemory())
	res, err := st.Generate(context.Background(), session.New("s"), request("bank"))
	require.NoError(t, err)
	assert.True(t, res.PrivacyWarning)
	assert.Equal(t, []string{"bank"}, res.SensitiveTerms)
	assert.False(t, res.URL)
	assert.Len(t, res.History, 1)
}

func TestGenerateTooShort(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")

	_, err := st.Generate(ctx, sess, request("hello"))
	require.NoError(t, err)

	for _, in := range []string{"abc", "", "   ab  ", "日本語"} {
		res, err := st.Generate(ctx, sess, request(in))
		assert.Nil(t, res)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), in)
		assert.Equal(t, "text", verr.Field)
	}

	_, ok := sess.Current()
	assert.False(t, ok, "download is withdrawn after a validation error")
	assert.Len(t, st.History(ctx, sess), 1, "history untouched by rejected input")
}

func TestGenerateTooLongForLevel(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")

	req := request(strings.Repeat("a", render.LevelH.Capacity()+1))
	req.Options.Level = render.LevelH
	res, err := st.Generate(ctx, sess, req)
	assert.Nil(t, res)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "text", verr.Field)
	assert.Contains(t, verr.Message, "1273")

	req.Options.Level = render.LevelL
	_, err = st.Generate(ctx, sess, req)
	assert.NoError(t, err, "the same text fits at level L")
}

func TestGenerateKeepsFiveNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")

	for _, in := range []string{"one1", "two2", "three", "four", "five", "six6"} {
		_, err := st.Generate(ctx, sess, request(in))
		require.NoError(t, err)
	}
	got := st.History(ctx, sess)
	require.Len(t, got, history.Limit)
	assert.Equal(t, "six6", got[0].Text)
	assert.Equal(t, "two2", got[4].Text)
}

func TestGenerateReportsHistoryFailure(t *testing.T) {
	st := newStudio(t, storage.WithQuota(storage.NewMemory(), 16))
	sess := session.New("s")

	res, err := st.Generate(context.Background(), sess, request("still rendered"))
	require.NoError(t, err)
	assert.ErrorIs(t, res.HistoryErr, history.ErrNotSaved)
	assert.Empty(t, res.History)
	assert.NotEmpty(t, res.PNG)

	_, ok := sess.Current()
	assert.True(t, ok)
}

func TestLogoLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")

	removed, err := st.RemoveLogo(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, removed, "nothing to regenerate yet")

	preview, err := st.SetLogo(sess, bytes.NewReader(logoPNG(t, 120, 60)))
	require.NoError(t, err)
	assert.Contains(t, preview, "data:image/png;base64,")
	assert.NotNil(t, sess.Logo())

	req := request("https://example.com/with-logo")
	req.Options.Level = render.LevelH
	req.Options.Size = 400
	withLogo, err := st.Generate(ctx, sess, req)
	require.NoError(t, err)
	assert.True(t, withLogo.Logo)

	img, err := png.Decode(bytes.NewReader(withLogo.PNG))
	require.NoError(t, err)
	r, g, b, _ := img.At(200, 200).RGBA()
	assert.InDelta(t, 200, int(r>>8), 2)
	assert.InDelta(t, 30, int(g>>8), 2)
	assert.InDelta(t, 30, int(b>>8), 2)

	plain, err := st.RemoveLogo(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, plain)
	assert.False(t, plain.Logo)
	assert.True(t, plain.Scannable)
	assert.Equal(t, withLogo.Text, plain.Text)
	assert.Equal(t, 400, plain.Options.Size)
	assert.Nil(t, sess.Logo())
	assert.Len(t, plain.History, 2)
}

func TestSetLogoRejectsGarbage(t *testing.T) {
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")
	_, err := st.SetLogo(sess, bytes.NewReader([]byte("nope")))
	assert.Error(t, err)
	assert.Nil(t, sess.Logo())
}

func TestRestoreRegeneratesWithStoredOptions(t *testing.T) {
	ctx := context.Background()
	st := newStudio(t, storage.NewMemory())
	sess := session.New("s")

	styled, err := NewRequest("first entry", 320, "#112233", "#fafafa", "q", render.DefaultOptions())
	require.NoError(t, err)
	_, err = st.Generate(ctx, sess, styled)
	require.NoError(t, err)
	_, err = st.Generate(ctx, sess, request("second entry"))
	require.NoError(t, err)

	res, err := st.Restore(ctx, sess, 1)
	require.NoError(t, err)
	assert.Equal(t, "first entry", res.Text)
	assert.Equal(t, 320, res.Options.Size)
	assert.Equal(t, render.LevelQ, res.Options.Level)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 255}, res.Options.DotColor)
	assert.Equal(t, "first entry", res.History[0].Text)

	text, opts, ok := sess.Last()
	require.True(t, ok)
	assert.Equal(t, "first entry", text)
	assert.Equal(t, 320, opts.Size)

	_, err = st.Restore(ctx, sess, 9)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestNewRequest(t *testing.T) {
	def := render.DefaultOptions()

	req, err := NewRequest("text", 0, "", "", "", def)
	require.NoError(t, err)
	assert.Equal(t, def, req.Options)

	_, err = NewRequest("text", 0, "#zzzzzz", "", "", def)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dot_color", verr.Field)

	_, err = NewRequest("text", 0, "", "", "X", def)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "level", verr.Field)

	_, err = NewRequest("text", 10, "", "", "", def)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "options", verr.Field)
}

func TestRequestFromEntryFallsBack(t *testing.T) {
	def := render.DefaultOptions()
	req := requestFromEntry(history.Entry{
		Text:    "legacy",
		Options: history.Options{DotColor: "red", Size: 1, Level: "?"},
	}, def)
	assert.Equal(t, "legacy", req.Text)
	assert.Equal(t, def, req.Options)
}
