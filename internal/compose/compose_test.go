package compose

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestLogoRect(t *testing.T) {
	cases := []struct {
		name       string
		size, w, h int
	}{
		{"landscape", 256, 400, 100},
		{"portrait", 256, 90, 300},
		{"square", 300, 50, 50},
		{"tiny logo upscaled", 512, 3, 2},
		{"odd size", 333, 640, 480},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := LogoRect(tc.size, tc.w, tc.h)
			longer := max(r.Dx(), r.Dy())
			assert.Equal(t, int(math.Floor(float64(tc.size)*0.2)), longer)

			want := float64(tc.w) / float64(tc.h)
			got := float64(r.Dx()) / float64(r.Dy())
			// One pixel of rounding on the shorter side.
			shorter := float64(min(r.Dx(), r.Dy()))
			assert.InDelta(t, want, got, want/shorter+1e-9)

			// Centred within one pixel.
			assert.InDelta(t, tc.size-r.Max.X, r.Min.X, 1)
			assert.InDelta(t, tc.size-r.Max.Y, r.Min.Y, 1)
		})
	}

	assert.True(t, LogoRect(256, 0, 10).Empty())
	assert.True(t, LogoRect(0, 10, 10).Empty())
}

func TestClipRadius(t *testing.T) {
	assert.Equal(t, 31.0, ClipRadius(image.Rect(0, 0, 50, 20)))
}

func TestCompositeNoLogo(t *testing.T) {
	canvas := solid(128, 128, color.RGBA{255, 255, 255, 255})
	before := append([]uint8(nil), canvas.Pix...)
	Composite(canvas, nil)
	assert.Equal(t, before, canvas.Pix)
}

func TestCompositeDrawsInsideLogoRect(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	red := color.RGBA{255, 0, 0, 255}
	canvas := solid(200, 200, white)
	logo := solid(80, 40, red)

	Composite(canvas, logo)

	r := LogoRect(200, 80, 40)
	assert.Equal(t, red, canvas.RGBAAt(100, 100))
	assert.Equal(t, white, canvas.RGBAAt(r.Min.X-2, 100))
	assert.Equal(t, white, canvas.RGBAAt(100, r.Min.Y-2))
	assert.Equal(t, white, canvas.RGBAAt(5, 5))
}

func TestCompositeClipsCorners(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	blue := color.RGBA{0, 0, 255, 255}
	canvas := solid(1000, 1000, white)
	Composite(canvas, solid(10, 10, blue))

	// A 200px square logo has corners ~141px from centre, beyond the 106px mask.
	r := LogoRect(1000, 10, 10)
	assert.Equal(t, white, canvas.RGBAAt(r.Min.X+1, r.Min.Y+1))
	assert.Equal(t, blue, canvas.RGBAAt(500, 500))
}

func TestVerifyAfterComposite(t *testing.T) {
	enc, err := render.New("yeqown")
	require.NoError(t, err)
	opts := render.DefaultOptions()
	opts.Size = 400

	s, err := enc.Encode(context.Background(), "https://example.com/verify", opts)
	require.NoError(t, err)
	text, err := Verify(s.Pixels)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/verify", text)

	_, err = Verify(solid(100, 100, color.RGBA{255, 255, 255, 255}))
	assert.Error(t, err)
}
