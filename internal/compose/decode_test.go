package compose

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLogo(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, solid(30, 20, color.RGBA{1, 2, 3, 255})))
		img, err := DecodeLogo(&buf)
		require.NoError(t, err)
		assert.Equal(t, 30, img.Bounds().Dx())
		assert.Equal(t, 20, img.Bounds().Dy())
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, solid(16, 16, color.RGBA{200, 0, 0, 255}), nil))
		img, err := DecodeLogo(&buf)
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
	})

	t.Run("svg", func(t *testing.T) {
		svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 32" width="64" height="32">` +
			`<rect x="0" y="0" width="64" height="32" fill="#ff0000"/></svg>`
		img, err := DecodeLogo(strings.NewReader(svg))
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 32, img.Bounds().Dy())
		_, _, _, a := img.At(32, 16).RGBA()
		assert.NotZero(t, a)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeLogo(strings.NewReader("definitely not an image"))
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := DecodeLogo(bytes.NewReader(make([]byte, MaxLogoBytes+10)))
		assert.ErrorIs(t, err, ErrLogoTooLarge)
	})

	t.Run("svg with huge viewBox is scaled down", func(t *testing.T) {
		svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 12000 6000">` +
			`<rect x="0" y="0" width="12000" height="6000" fill="#000"/></svg>`
		img, err := DecodeLogo(strings.NewReader(svg))
		require.NoError(t, err)
		assert.Equal(t, 1024, img.Bounds().Dx())
		assert.Equal(t, 512, img.Bounds().Dy())
	})

	t.Run("raster with huge declared size", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, solid(1, 1, color.RGBA{0, 0, 0, 255})))
		data := buf.Bytes()
		// IHDR data starts after the 8 byte signature and the chunk length and type.
		binary.BigEndian.PutUint32(data[16:20], 50000)
		binary.BigEndian.PutUint32(data[20:24], 50000)
		binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

		_, err := DecodeLogo(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrLogoDimensions)
	})
}

func TestSVGTarget(t *testing.T) {
	w, h := svgTarget(64, 32)
	assert.Equal(t, []int{64, 32}, []int{w, h})
	w, h = svgTarget(100000, 100000)
	assert.Equal(t, []int{1024, 1024}, []int{w, h})
	w, h = svgTarget(0, 10)
	assert.Equal(t, []int{512, 512}, []int{w, h})
}
