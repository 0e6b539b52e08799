package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstudio/web/components"
)

func TestHomePage(t *testing.T) {
	var buf bytes.Buffer
	err := HomePage(HomeProps{
		Form: components.FormValues{
			Text: `a"b`, Size: 256, MinSize: 64, MaxSize: 2048,
			DotColor: "#000000", BackgroundColor: "#ffffff", Level: "q",
		},
		History: []components.HistoryItem{{Index: 0, Thumb: "data:x", Text: "prev"}},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)
	out := buf.String()

	for _, id := range []string{"text", "generate", "download", "dot_color", "background_color", "size", "size-label", "level", "qr-error", "privacy-warning", "history", "logo", "logo-controls", "remove-logo"} {
		assert.Contains(t, out, `id="`+id+`"`, id)
	}
	assert.Contains(t, out, `value="a&#34;b"`)
	assert.Contains(t, out, `<span id="size-label">256px</span>`)
	assert.Contains(t, out, `<option value="Q" selected>`)
	assert.Contains(t, out, `class="placeholder`)
	assert.Contains(t, out, `hx-post="/api/history/0/restore"`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("</html>")))
}
