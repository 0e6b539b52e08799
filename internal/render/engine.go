// Package render wraps third-party QR encoders behind one contract: text and
// style options in, a finished pixel surface out.
package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownEngine is returned by New for an unregistered engine name.
var ErrUnknownEngine = errors.New("unknown encoder engine")

// DefaultEngine is used when no engine is configured.
const DefaultEngine = "yeqown"

// Encoder turns text into a QR surface. Encode returns only once the surface is
// complete; the returned surface is always Options.Size square.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, text string, opts Options) (*Surface, error)
}

var engines = map[string]func() Encoder{
	"yeqown":    func() Encoder { return yeqownEncoder{} },
	"skip2":     func() Encoder { return skip2Encoder{} },
	"rsc":       func() Encoder { return rscEncoder{} },
	"boombuler": func() Encoder { return boombulerEncoder{} },
}

// New returns the encoder registered under name. An empty name selects
// DefaultEngine.
func New(name string) (Encoder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultEngine
	}
	mk, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownEngine, name, strings.Join(Engines(), ", "))
	}
	return mk(), nil
}

// Engines lists registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for n := range engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// prepare rejects cancelled contexts, empty text and invalid options before any
// engine work starts.
func prepare(ctx context.Context, text string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("nothing to encode")
	}
	return opts.Validate()
}
