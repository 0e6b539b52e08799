package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/history"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
	"github.com/cristianadrielbraun/qrstudio/web/components"
)

const historyNotSaved = "This code was not added to your history: storage is full or unavailable."

// resultJSON is the non-HTMX response for a generation.
type resultJSON struct {
	Text           string          `json:"text"`
	URL            bool            `json:"url"`
	PrivacyWarning bool            `json:"privacy_warning"`
	SensitiveTerms []string        `json:"sensitive_terms,omitempty"`
	DataURL        string          `json:"data_url"`
	Size           int             `json:"size"`
	Level          string          `json:"level"`
	Logo           bool            `json:"logo"`
	Scannable      bool            `json:"scannable"`
	HistoryError   string          `json:"history_error,omitempty"`
	History        []history.Entry `json:"history"`
}

func toJSON(res *studio.Result) resultJSON {
	out := resultJSON{
		Text:           res.Text,
		URL:            res.URL,
		PrivacyWarning: res.PrivacyWarning,
		SensitiveTerms: res.SensitiveTerms,
		DataURL:        res.DataURL,
		Size:           res.Options.Size,
		Level:          string(res.Options.Level),
		Logo:           res.Logo,
		Scannable:      res.Scannable,
		History:        res.History,
	}
	if res.HistoryErr != nil {
		out.HistoryError = res.HistoryErr.Error()
	}
	if out.History == nil {
		out.History = []history.Entry{}
	}
	return out
}

func resultView(res *studio.Result) components.ResultView {
	v := components.ResultView{
		Text:           res.Text,
		DataURL:        res.DataURL,
		PrivacyWarning: res.PrivacyWarning,
		SensitiveTerms: res.SensitiveTerms,
		Unscannable:    res.Logo && !res.Scannable,
		Fresh:          true,
	}
	if res.HistoryErr != nil {
		v.Notice = historyNotSaved
	}
	return v
}

func historyItems(entries []history.Entry) []components.HistoryItem {
	items := make([]components.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = components.HistoryItem{Index: i, Thumb: e.ImageData, Text: e.Text}
	}
	return items
}

func formValues(text string, opts render.Options) components.FormValues {
	return components.FormValues{
		Text:            text,
		Size:            opts.Size,
		MinSize:         render.MinSize,
		MaxSize:         render.MaxSize,
		DotColor:        render.HexColor(opts.DotColor),
		BackgroundColor: render.HexColor(opts.BackgroundColor),
		Level:           string(opts.Level),
	}
}

// renderHTML writes the given components in order as one HTML response.
func (h *Handler) renderHTML(c *gin.Context, status int, parts ...templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	for _, p := range parts {
		if err := p.Render(c.Request.Context(), c.Writer); err != nil {
			h.log.Error("render fragment", "path", c.FullPath(), "error", err)
			return
		}
	}
}

// writeResult answers a successful generation in the caller's format. HTMX
// callers also get the form back out of band, filled with the normalized text
// and the options the image was rendered with.
func (h *Handler) writeResult(c *gin.Context, res *studio.Result, extra ...templ.Component) {
	if isHTMX(c) {
		parts := []templ.Component{
			components.Result(resultView(res)),
			components.HistoryStrip(historyItems(res.History), true),
			components.Form(formValues(res.Text, res.Options), true),
		}
		h.renderHTML(c, http.StatusOK, append(parts, extra...)...)
		return
	}
	c.JSON(http.StatusOK, toJSON(res))
}
