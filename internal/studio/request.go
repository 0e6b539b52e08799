package studio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cristianadrielbraun/qrstudio/internal/heuristics"
	"github.com/cristianadrielbraun/qrstudio/internal/history"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// MinTextLength is the shortest input, in characters, worth encoding.
const MinTextLength = 4

// Request is one generation: the text plus its style.
type Request struct {
	Text    string
	Options render.Options
}

// ValidationError describes input the pipeline refuses to run on.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewRequest builds a Request from raw form values. Empty values fall back to
// def; malformed ones produce a *ValidationError.
func NewRequest(text string, size int, dot, bg, level string, def render.Options) (Request, error) {
	opts := def
	if size != 0 {
		opts.Size = size
	}
	var err error
	if opts.DotColor, err = render.ParseColor(dot, def.DotColor); err != nil {
		return Request{}, &ValidationError{Field: "dot_color", Message: err.Error()}
	}
	if opts.BackgroundColor, err = render.ParseColor(bg, def.BackgroundColor); err != nil {
		return Request{}, &ValidationError{Field: "background_color", Message: err.Error()}
	}
	if strings.TrimSpace(level) != "" {
		if opts.Level, err = render.ParseLevel(level); err != nil {
			return Request{}, &ValidationError{Field: "level", Message: err.Error()}
		}
	}
	if err := opts.Validate(); err != nil {
		return Request{}, &ValidationError{Field: "options", Message: err.Error()}
	}
	return Request{Text: text, Options: opts}, nil
}

// validate returns the normalized text and whether it is a URL.
func (r Request) validate() (string, bool, error) {
	text := strings.TrimSpace(r.Text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", false, &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("at least %d characters required", MinTextLength),
		}
	}
	if err := r.Options.Validate(); err != nil {
		return "", false, &ValidationError{Field: "options", Message: err.Error()}
	}
	text, isURL := heuristics.NormalizeInput(text)
	if limit := r.Options.Level.Capacity(); len(text) > limit {
		return "", false, &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text is %d bytes, level %s holds at most %d", len(text), r.Options.Level, limit),
		}
	}
	return text, isURL, nil
}

func historyOptions(o render.Options) history.Options {
	return history.Options{
		DotColor:        render.HexColor(o.DotColor),
		BackgroundColor: render.HexColor(o.BackgroundColor),
		Size:            o.Size,
		Level:           string(o.Level),
	}
}

// requestFromEntry rebuilds the request an entry was generated from. Fields
// that no longer parse fall back to def.
func requestFromEntry(e history.Entry, def render.Options) Request {
	opts := def
	if c, err := render.ParseColor(e.Options.DotColor, def.DotColor); err == nil {
		opts.DotColor = c
	}
	if c, err := render.ParseColor(e.Options.BackgroundColor, def.BackgroundColor); err == nil {
		opts.BackgroundColor = c
	}
	if e.Options.Size >= render.MinSize && e.Options.Size <= render.MaxSize {
		opts.Size = e.Options.Size
	}
	if l, err := render.ParseLevel(e.Options.Level); err == nil {
		opts.Level = l
	}
	return Request{Text: e.Text, Options: opts}
}
