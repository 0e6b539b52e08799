// Package compose overlays a logo onto a rendered QR surface and checks that
// the result still scans.
package compose

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// LogoScale is the share of the QR edge the logo's longer side may take.
const LogoScale = 0.2

// clipPadding widens the circular mask beyond the logo's longer half-side.
const clipPadding = 6

// LogoRect returns where a w×h logo lands on a size×size canvas: centred, the
// longer side floor(LogoScale×size), the other side scaled to keep the aspect
// ratio. Degenerate input yields an empty rectangle.
func LogoRect(size, w, h int) image.Rectangle {
	logoMax := int(math.Floor(float64(size) * LogoScale))
	if size <= 0 || w <= 0 || h <= 0 || logoMax <= 0 {
		return image.Rectangle{}
	}
	if w > h {
		h = int(math.Round(float64(h) * float64(logoMax) / float64(w)))
		w = logoMax
	} else {
		w = int(math.Round(float64(w) * float64(logoMax) / float64(h)))
		h = logoMax
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := (size - w) / 2
	y := (size - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// ClipRadius is the radius of the circular mask for a logo placed at r.
func ClipRadius(r image.Rectangle) float64 {
	return float64(max(r.Dx(), r.Dy()))/2 + clipPadding
}

// Composite draws logo onto canvas in place, centred and clipped to a circle.
// A nil logo leaves the canvas untouched. The QR modules underneath are not
// re-encoded; picking a correction level that survives the overlay is up to
// the caller.
func Composite(canvas *image.RGBA, logo image.Image) {
	if canvas == nil || logo == nil {
		return
	}
	size := canvas.Bounds().Dx()
	lb := logo.Bounds()
	r := LogoRect(size, lb.Dx(), lb.Dy())
	if r.Empty() {
		return
	}

	scaled := imaging.Resize(logo, r.Dx(), r.Dy(), imaging.Lanczos)

	dc := gg.NewContextForRGBA(canvas)
	dc.DrawCircle(float64(size)/2, float64(size)/2, ClipRadius(r))
	dc.Clip()
	dc.DrawImage(scaled, r.Min.X, r.Min.Y)
	dc.ResetClip()
}
