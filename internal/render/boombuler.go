package render

import (
	"context"
	"fmt"

	"github.com/boombuler/barcode"
	bqr "github.com/boombuler/barcode/qr"
)

type boombulerEncoder struct{}

func (boombulerEncoder) Name() string { return "boombuler" }

func (boombulerEncoder) Encode(ctx context.Context, text string, opts Options) (*Surface, error) {
	if err := prepare(ctx, text, opts); err != nil {
		return nil, err
	}
	code, err := bqr.Encode(text, boombulerLevel(opts.Level), bqr.Auto)
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}
	n, dark := modules(code)
	if n == 0 {
		return nil, fmt.Errorf("empty QR code")
	}
	return rasterize(n, dark, opts), nil
}

// modules reads the unscaled symbol, one pixel per module.
func modules(code barcode.Barcode) (int, func(x, y int) bool) {
	b := code.Bounds()
	return b.Dx(), func(x, y int) bool {
		return isDark(code.At(b.Min.X+x, b.Min.Y+y))
	}
}

func boombulerLevel(l Level) bqr.ErrorCorrectionLevel {
	switch l {
	case LevelL:
		return bqr.L
	case LevelQ:
		return bqr.Q
	case LevelH:
		return bqr.H
	default:
		return bqr.M
	}
}
