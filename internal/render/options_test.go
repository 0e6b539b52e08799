package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"L": LevelL, "m": LevelM, " q ": LevelQ, "H": LevelH} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("X")
	assert.Error(t, err)
	_, err = ParseLevel("")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	def := color.RGBA{1, 2, 3, 255}

	got, err := ParseColor("#ff8000", def)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 128, 0, 255}, got)

	got, err = ParseColor("00ff00", def)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, got)

	got, err = ParseColor("", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = ParseColor("#fff", def)
	assert.Error(t, err)
	_, err = ParseColor("#gggggg", def)
	assert.Error(t, err)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#0a0b0c", HexColor(color.RGBA{10, 11, 12, 255}))
}

func TestOptionsValidate(t *testing.T) {
	o := DefaultOptions()
	assert.NoError(t, o.Validate())

	o.Size = MaxSize + 1
	assert.Error(t, o.Validate())

	o = DefaultOptions()
	o.Level = "Z"
	assert.Error(t, o.Validate())
}
