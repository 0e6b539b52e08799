package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Level is a QR error-correction level.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

// Capacity is the number of bytes a version 40 code holds in byte mode at
// level l. Zero for an unknown level.
func (l Level) Capacity() int {
	switch l {
	case LevelL:
		return 2953
	case LevelM:
		return 2331
	case LevelQ:
		return 1663
	case LevelH:
		return 1273
	}
	return 0
}

// Size bounds for a rendered surface, in pixels.
const (
	MinSize = 64
	MaxSize = 2048
)

// Options is the style configuration for one rendering.
type Options struct {
	Size            int
	DotColor        color.RGBA
	BackgroundColor color.RGBA
	Level           Level
}

// DefaultOptions returns black dots on white at 256px, level M.
func DefaultOptions() Options {
	return Options{
		Size:            256,
		DotColor:        color.RGBA{0, 0, 0, 255},
		BackgroundColor: color.RGBA{255, 255, 255, 255},
		Level:           LevelM,
	}
}

// Validate checks size bounds and the correction level.
func (o Options) Validate() error {
	if o.Size < MinSize || o.Size > MaxSize {
		return fmt.Errorf("size must be between %d and %d pixels, got %d", MinSize, MaxSize, o.Size)
	}
	if _, err := ParseLevel(string(o.Level)); err != nil {
		return err
	}
	return nil
}

// ParseLevel accepts L, M, Q or H in any case.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelL, LevelM, LevelQ, LevelH:
		return l, nil
	}
	return "", fmt.Errorf("unknown correction level %q (want L, M, Q or H)", s)
}

// ParseColor parses a #rrggbb (or rrggbb) hex color. An empty string yields def.
func ParseColor(s string, def color.RGBA) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return def, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return def, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}

// HexColor formats c as #rrggbb, dropping alpha.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
