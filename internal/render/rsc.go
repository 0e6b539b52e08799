package render

import (
	"context"
	"fmt"

	rscqr "rsc.io/qr"
)

type rscEncoder struct{}

func (rscEncoder) Name() string { return "rsc" }

func (rscEncoder) Encode(ctx context.Context, text string, opts Options) (*Surface, error) {
	if err := prepare(ctx, text, opts); err != nil {
		return nil, err
	}
	code, err := rscqr.Encode(text, rscLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}
	if code.Size == 0 {
		return nil, fmt.Errorf("empty QR code")
	}
	return rasterize(code.Size, code.Black, opts), nil
}

func rscLevel(l Level) rscqr.Level {
	switch l {
	case LevelL:
		return rscqr.L
	case LevelQ:
		return rscqr.Q
	case LevelH:
		return rscqr.H
	default:
		return rscqr.M
	}
}
