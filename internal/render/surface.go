package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// quietZone is the blank margin around the symbol, in modules.
const quietZone = 4

// Surface is the finished output of an encoder: a pixel-addressable canvas of
// exactly Options.Size square pixels.
type Surface struct {
	Pixels *image.RGBA
}

// Size returns the edge length of the surface in pixels.
func (s *Surface) Size() int {
	if s == nil || s.Pixels == nil {
		return 0
	}
	return s.Pixels.Bounds().Dx()
}

// fit scales src onto a fresh size×size canvas with nearest-neighbour sampling
// so module edges stay sharp.
func fit(src image.Image, size int) *Surface {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &Surface{Pixels: dst}
}

// rasterize paints an n×n module grid, surrounded by the quiet zone, onto a
// size×size canvas.
func rasterize(n int, dark func(x, y int) bool, opts Options) *Surface {
	size := opts.Size
	total := n + 2*quietZone
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		my := py*total/size - quietZone
		for px := 0; px < size; px++ {
			mx := px*total/size - quietZone
			c := opts.BackgroundColor
			if mx >= 0 && my >= 0 && mx < n && my < n && dark(mx, my) {
				c = opts.DotColor
			}
			img.SetRGBA(px, py, c)
		}
	}
	return &Surface{Pixels: img}
}

// isDark reports whether a module pixel is closer to black than white.
func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

// EncodePNG encodes the surface as PNG bytes.
func EncodePNG(s *Surface) ([]byte, error) {
	if s == nil || s.Pixels == nil {
		return nil, fmt.Errorf("empty surface")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Pixels); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes in a data: URL suitable for an <img> src.
func DataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
