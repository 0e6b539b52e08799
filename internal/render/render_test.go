package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestEnginesProduceExactScannableSurface(t *testing.T) {
	ctx := context.Background()
	text := "https://example.com/hello"

	for _, name := range Engines() {
		t.Run(name, func(t *testing.T) {
			enc, err := New(name)
			require.NoError(t, err)
			assert.Equal(t, name, enc.Name())

			for _, size := range []int{200, 256, 333} {
				opts := DefaultOptions()
				opts.Size = size
				s, err := enc.Encode(ctx, text, opts)
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, size, size), s.Pixels.Bounds())
				assert.Equal(t, size, s.Size())
				assert.Equal(t, text, decode(t, s.Pixels))
			}
		})
	}
}

func TestEncodeUsesColors(t *testing.T) {
	dot := color.RGBA{0x20, 0x10, 0x80, 255}
	bg := color.RGBA{0xff, 0xee, 0xcc, 255}
	for _, name := range Engines() {
		t.Run(name, func(t *testing.T) {
			enc, err := New(name)
			require.NoError(t, err)
			opts := Options{Size: 300, DotColor: dot, BackgroundColor: bg, Level: LevelH}
			s, err := enc.Encode(context.Background(), "colour test", opts)
			require.NoError(t, err)

			// The quiet zone corner is background, the finder pattern's outer
			// ring just inside it is dot colored.
			assert.Equal(t, bg, s.Pixels.RGBAAt(1, 1))
			var sawDot bool
			for x := 0; x < 300 && !sawDot; x++ {
				sawDot = s.Pixels.RGBAAt(x, x) == dot
			}
			assert.True(t, sawDot, "expected dot color on the diagonal")
		})
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	enc, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngine, enc.Name())

	opts := DefaultOptions()
	_, err = enc.Encode(context.Background(), "", opts)
	assert.Error(t, err)

	opts.Size = 10
	_, err = enc.Encode(context.Background(), "some text", opts)
	assert.ErrorContains(t, err, "size must be between")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = enc.Encode(ctx, "some text", DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New("zxing")
	assert.ErrorIs(t, err, ErrUnknownEngine)
	assert.True(t, strings.Contains(err.Error(), "yeqown"))
}

func TestEncodePNGAndDataURL(t *testing.T) {
	enc, err := New("rsc")
	require.NoError(t, err)
	s, err := enc.Encode(context.Background(), "png roundtrip", DefaultOptions())
	require.NoError(t, err)

	data, err := EncodePNG(s)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	url := DataURL(data)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	_, err = EncodePNG(nil)
	assert.Error(t, err)
}
