// Package studio runs the generation pipeline: validate, classify, encode,
// overlay the session logo, record history and keep the result for download.
package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrstudio/internal/compose"
	"github.com/cristianadrielbraun/qrstudio/internal/heuristics"
	"github.com/cristianadrielbraun/qrstudio/internal/history"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
)

// ErrNoSuchEntry is returned by Restore for an index outside the history.
var ErrNoSuchEntry = errors.New("no such history entry")

// logoPreviewSize bounds the thumbnail shown next to the logo picker.
const logoPreviewSize = 64

// Result is what the display needs after a successful generation.
type Result struct {
	Text           string
	URL            bool
	PrivacyWarning bool
	SensitiveTerms []string
	PNG            []byte
	DataURL        string
	Options        render.Options
	Logo           bool
	// Scannable is false when the overlaid logo made the code unreadable.
	Scannable bool
	// HistoryErr is non-nil (wrapping history.ErrNotSaved) when the result
	// could not be added to the history.
	HistoryErr error
	History    []history.Entry
}

// Studio wires the pipeline stages together.
type Studio struct {
	enc      render.Encoder
	hist     *history.Store
	defaults render.Options
	log      *slog.Logger
}

// New returns a Studio rendering with enc and recording into hist.
func New(enc render.Encoder, hist *history.Store, defaults render.Options, log *slog.Logger) *Studio {
	if log == nil {
		log = slog.Default()
	}
	return &Studio{enc: enc, hist: hist, defaults: defaults, log: log}
}

// Defaults returns the style used when a request leaves fields empty.
func (s *Studio) Defaults() render.Options { return s.defaults }

// Engine names the encoder in use.
func (s *Studio) Engine() string { return s.enc.Name() }

// Generate runs the full pipeline for sess. On a *ValidationError the
// session's downloadable image is withdrawn and history is left alone.
func (s *Studio) Generate(ctx context.Context, sess *session.Session, req Request) (*Result, error) {
	start := time.Now()

	text, isURL, err := req.validate()
	if err != nil {
		sess.ClearCurrent()
		return nil, err
	}

	terms := heuristics.SensitiveTerms(text)

	surface, err := s.enc.Encode(ctx, text, req.Options)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	logo := sess.Logo()
	scannable := true
	if logo != nil {
		compose.Composite(surface.Pixels, logo)
		decoded, verr := compose.Verify(surface.Pixels)
		scannable = verr == nil && decoded == text
	}

	pngData, err := render.EncodePNG(surface)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Text:           text,
		URL:            isURL,
		PrivacyWarning: len(terms) > 0,
		SensitiveTerms: terms,
		PNG:            pngData,
		DataURL:        render.DataURL(pngData),
		Options:        req.Options,
		Logo:           logo != nil,
		Scannable:      scannable,
	}

	res.History, res.HistoryErr = s.hist.Record(ctx, sess.ID, history.Entry{
		ImageData: res.DataURL,
		Text:      text,
		Options:   historyOptions(req.Options),
	})
	if res.HistoryErr != nil {
		s.log.Warn("history not saved", "session", sess.ID, "error", res.HistoryErr)
	}

	sess.Remember(text, req.Options, pngData)

	s.log.Info("qr generated",
		"session", sess.ID,
		"engine", s.enc.Name(),
		"size", req.Options.Size,
		"level", req.Options.Level,
		"url", isURL,
		"privacy_warning", res.PrivacyWarning,
		"logo", res.Logo,
		"scannable", scannable,
		"duration", time.Since(start),
	)
	return res, nil
}

// SetLogo decodes a logo file, attaches it to sess and returns a preview data
// URL. The current image is not regenerated.
func (s *Studio) SetLogo(sess *session.Session, r io.Reader) (string, error) {
	img, err := compose.DecodeLogo(r)
	if err != nil {
		return "", err
	}
	thumb := imaging.Fit(img, logoPreviewSize, logoPreviewSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encode logo preview: %w", err)
	}
	preview := render.DataURL(buf.Bytes())
	sess.SetLogo(img, preview)
	b := img.Bounds()
	s.log.Info("logo set", "session", sess.ID, "width", b.Dx(), "height", b.Dy())
	return preview, nil
}

// RemoveLogo clears the logo and regenerates the last request without it.
// It returns a nil Result when nothing has been generated yet.
func (s *Studio) RemoveLogo(ctx context.Context, sess *session.Session) (*Result, error) {
	sess.ClearLogo()
	text, opts, ok := sess.Last()
	if !ok {
		return nil, nil
	}
	return s.Generate(ctx, sess, Request{Text: text, Options: opts})
}

// Restore regenerates the history entry at index with its stored text and
// style. The stored image is only a thumbnail; the code is encoded afresh.
func (s *Studio) Restore(ctx context.Context, sess *session.Session, index int) (*Result, error) {
	e, ok := s.hist.Get(ctx, sess.ID, index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchEntry, index)
	}
	return s.Generate(ctx, sess, requestFromEntry(e, s.defaults))
}

// History lists the session's recent generations, newest first.
func (s *Studio) History(ctx context.Context, sess *session.Session) []history.Entry {
	return s.hist.List(ctx, sess.ID)
}

// Current returns the PNG last generated for sess, for download.
func (s *Studio) Current(sess *session.Session) ([]byte, bool) {
	return sess.Current()
}
