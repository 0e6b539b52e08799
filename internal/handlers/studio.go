package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/compose"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
	"github.com/cristianadrielbraun/qrstudio/web/components"
	"github.com/cristianadrielbraun/qrstudio/web/pages"
)

const generateFailed = "Something went wrong while drawing this code. Please try again."

type generateForm struct {
	Text            string `form:"text" json:"text"`
	Size            int    `form:"size" json:"size"`
	DotColor        string `form:"dot_color" json:"dot_color"`
	BackgroundColor string `form:"background_color" json:"background_color"`
	Level           string `form:"level" json:"level"`
}

// Home renders the generator page with the session's current state.
func (h *Handler) Home(c *gin.Context) {
	sess := h.session(c)
	text, opts, ok := sess.Last()
	if !ok {
		opts = h.studio.Defaults()
	}
	props := pages.HomeProps{
		Form:        formValues(text, opts),
		History:     historyItems(h.studio.History(c.Request.Context(), sess)),
		LogoPreview: sess.LogoPreview(),
	}
	if png, ok := h.studio.Current(sess); ok {
		props.Result = components.ResultView{Text: text, DataURL: render.DataURL(png)}
	}
	h.renderHTML(c, http.StatusOK, pages.HomePage(props))
}

// Generate encodes the submitted text for the caller's session.
func (h *Handler) Generate(c *gin.Context) {
	sess := h.session(c)

	var form generateForm
	if err := c.ShouldBind(&form); err != nil {
		sess.ClearCurrent()
		h.writeError(c, &studio.ValidationError{Field: "form", Message: err.Error()})
		return
	}
	req, err := studio.NewRequest(form.Text, form.Size, form.DotColor, form.BackgroundColor, form.Level, h.studio.Defaults())
	if err != nil {
		sess.ClearCurrent()
		h.writeError(c, err)
		return
	}
	res, err := h.studio.Generate(c.Request.Context(), sess, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeResult(c, res)
}

// Download sends the session's current image as an attachment.
func (h *Handler) Download(c *gin.Context) {
	png, ok := h.studio.Current(h.session(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing to download"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="qrcode.png"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// UploadLogo attaches the multipart "logo" file to the session.
func (h *Handler) UploadLogo(c *gin.Context) {
	sess := h.session(c)
	fh, err := c.FormFile("logo")
	if err != nil {
		h.writeLogoError(c, sess.LogoPreview(), http.StatusBadRequest, "logo file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeLogoError(c, sess.LogoPreview(), http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	preview, err := h.studio.SetLogo(sess, f)
	switch {
	case errors.Is(err, compose.ErrLogoTooLarge), errors.Is(err, compose.ErrLogoDimensions):
		h.writeLogoError(c, sess.LogoPreview(), http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		h.writeLogoError(c, sess.LogoPreview(), http.StatusUnprocessableEntity, err.Error())
		return
	}
	if isHTMX(c) {
		h.renderHTML(c, http.StatusOK, components.LogoControls(preview, false))
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo": true, "preview": preview})
}

// RemoveLogo clears the session logo and regenerates the last code without it.
func (h *Handler) RemoveLogo(c *gin.Context) {
	sess := h.session(c)
	res, err := h.studio.RemoveLogo(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res == nil {
		if isHTMX(c) {
			h.renderHTML(c, http.StatusOK,
				components.Result(components.ResultView{}),
				components.LogoControls("", true))
			return
		}
		c.JSON(http.StatusOK, gin.H{"logo": false})
		return
	}
	h.writeResult(c, res, components.LogoControls("", true))
}

// History lists the session's recent generations, newest first.
func (h *Handler) History(c *gin.Context) {
	entries := h.studio.History(c.Request.Context(), h.session(c))
	if isHTMX(c) {
		h.renderHTML(c, http.StatusOK, components.HistoryStrip(historyItems(entries), false))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Restore regenerates the history entry at :index.
func (h *Handler) Restore(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return
	}
	res, err := h.studio.Restore(c.Request.Context(), h.session(c), index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeResult(c, res)
}

// writeError maps pipeline errors onto responses. Validation failures are
// rendered inline with the placeholder for HTMX callers.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *studio.ValidationError
	switch {
	case errors.As(err, &verr):
		if isHTMX(c) {
			h.renderHTML(c, http.StatusUnprocessableEntity, components.Result(components.ResultView{Error: humanize(verr)}))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, studio.ErrNoSuchEntry):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case c.Request.Context().Err() != nil:
		h.log.Debug("request cancelled", "path", c.FullPath())
		c.Status(499)
	default:
		h.log.Error("generation failed", "path", c.FullPath(), "error", err)
		if isHTMX(c) {
			// htmx swaps 422 responses only; the toast carries the reason.
			h.renderHTML(c, http.StatusUnprocessableEntity,
				components.Result(components.ResultView{Error: generateFailed}),
				oobToast("Could not generate", generateFailed))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
	}
}

func (h *Handler) writeLogoError(c *gin.Context, preview string, status int, msg string) {
	h.log.Warn("logo rejected", "status", status, "error", msg)
	if isHTMX(c) {
		// htmx swaps 422 responses only; the toast carries the reason.
		h.renderHTML(c, http.StatusUnprocessableEntity,
			components.LogoControls(preview, false),
			oobToast("Logo not used", msg))
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

func humanize(verr *studio.ValidationError) string {
	if verr.Field == "text" && strings.HasPrefix(verr.Message, "at least") {
		return "Please enter at least " + strconv.Itoa(studio.MinTextLength) + " characters."
	}
	return verr.Message
}

// oobToast wraps a toast for an out-of-band swap into the page's #toasts slot.
func oobToast(title, description string) templ.Component {
	return toastComponent(title, description, "error", true)
}
