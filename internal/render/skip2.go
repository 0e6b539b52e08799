package render

import (
	"context"
	"fmt"

	skip2 "github.com/skip2/go-qrcode"
)

type skip2Encoder struct{}

func (skip2Encoder) Name() string { return "skip2" }

func (skip2Encoder) Encode(ctx context.Context, text string, opts Options) (*Surface, error) {
	if err := prepare(ctx, text, opts); err != nil {
		return nil, err
	}
	q, err := skip2.New(text, skip2Level(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}
	q.ForegroundColor = opts.DotColor
	q.BackgroundColor = opts.BackgroundColor
	// Image may come back larger than requested when the symbol does not fit.
	return fit(q.Image(opts.Size), opts.Size), nil
}

func skip2Level(l Level) skip2.RecoveryLevel {
	switch l {
	case LevelL:
		return skip2.Low
	case LevelQ:
		return skip2.High
	case LevelH:
		return skip2.Highest
	default:
		return skip2.Medium
	}
}
