package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type yeqownEncoder struct{}

func (yeqownEncoder) Name() string { return "yeqown" }

func (yeqownEncoder) Encode(ctx context.Context, text string, opts Options) (*Surface, error) {
	if err := prepare(ctx, text, opts); err != nil {
		return nil, err
	}

	qrc, err := qrcode.NewWith(text,
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		yeqownLevel(opts.Level),
	)
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}

	// Pick the largest whole module width that fits, then let fit() absorb the
	// remainder so the surface is exactly opts.Size.
	dim := qrc.Dimension()
	moduleWidth := opts.Size / (dim + 2*quietZone)
	if moduleWidth < 1 {
		moduleWidth = 1
	}
	if moduleWidth > 255 {
		moduleWidth = 255
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf},
		standard.WithQRWidth(uint8(moduleWidth)),
		standard.WithBorderWidth(moduleWidth*quietZone),
		standard.WithBgColor(opts.BackgroundColor),
		standard.WithFgColor(opts.DotColor),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("write QR image: %w", err)
	}

	img, _, err := image.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode QR image: %w", err)
	}
	return fit(img, opts.Size), nil
}

func yeqownLevel(l Level) qrcode.EncodeOption {
	switch l {
	case LevelL:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelQ:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case LevelH:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }
