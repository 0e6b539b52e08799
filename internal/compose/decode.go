package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxLogoBytes bounds an uploaded logo file.
const MaxLogoBytes = 4 << 20

const (
	// maxLogoEdge bounds the declared width and height of a raster logo.
	maxLogoEdge = 4096
	// maxSVGEdge bounds the longer edge an SVG logo is rasterized to.
	maxSVGEdge = 1024
	// svgRasterSize is the edge used when an SVG carries no usable viewBox.
	svgRasterSize = 512
)

var (
	ErrLogoTooLarge   = errors.New("logo file is too large")
	ErrLogoDimensions = errors.New("logo dimensions are too large")
	ErrLogoEmpty      = errors.New("logo image has no pixels")
)

// DecodeLogo reads a PNG, JPEG, GIF, BMP, WebP or SVG logo.
func DecodeLogo(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if len(data) > MaxLogoBytes {
		return nil, ErrLogoTooLarge
	}

	var img image.Image
	if isSVG(data) {
		img, err = rasterizeSVG(data)
	} else {
		img, err = decodeRaster(data)
	}
	if errors.Is(err, ErrLogoDimensions) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrLogoEmpty
	}
	return img, nil
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// decodeRaster checks the declared size before decoding so a small file
// cannot expand into an unbounded allocation.
func decodeRaster(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width > maxLogoEdge || cfg.Height > maxLogoEdge {
		return nil, fmt.Errorf("%w: %dx%d", ErrLogoDimensions, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w, h := svgTarget(icon.ViewBox.W, icon.ViewBox.H)
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())), 1)
	return rgba, nil
}

// svgTarget fits a viewBox into maxSVGEdge keeping its aspect ratio.
func svgTarget(vw, vh float64) (int, int) {
	if !(vw > 0 && vh > 0) || math.IsInf(vw, 0) || math.IsInf(vh, 0) {
		return svgRasterSize, svgRasterSize
	}
	if longest := math.Max(vw, vh); longest > maxSVGEdge {
		scale := maxSVGEdge / longest
		vw, vh = vw*scale, vh*scale
	}
	return max(1, int(math.Ceil(vw))), max(1, int(math.Ceil(vh)))
}
