package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/heuristics"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// maxQRTextLength caps the stateless endpoint's input.
const maxQRTextLength = 4096

// QRCodeHandler renders a code from query parameters without touching any
// session or history: text (or url), size, fg, bg, level, format=png|jpg.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		text = strings.TrimSpace(c.Query("url"))
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text parameter is required"})
		return
	}
	if utf8.RuneCountInString(text) > maxQRTextLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}
	text, _ = heuristics.NormalizeInput(text)

	format := strings.ToLower(c.DefaultQuery("format", "png"))
	if format == "jpeg" {
		format = "jpg"
	}
	if format != "png" && format != "jpg" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be png or jpg"})
		return
	}

	size := 0
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a number"})
			return
		}
		size = n
	}
	req, err := studio.NewRequest(text, size, c.Query("fg"), c.Query("bg"), c.Query("level"), h.studio.Defaults())
	if err != nil {
		var verr *studio.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Text) > req.Options.Level.Capacity() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long for level " + string(req.Options.Level), "field": "text"})
		return
	}

	surface, err := h.enc.Encode(c.Request.Context(), req.Text, req.Options)
	if err != nil {
		h.log.Error("stateless render failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create QR code"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%d;level=%s;engine=%s", format, surface.Size(), req.Options.Level, h.enc.Name()))

	if format == "jpg" {
		// Surfaces are opaque, so no background composite is needed first.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, surface.Pixels, &jpeg.Options{Quality: 92}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to encode JPEG: %v", err)})
			return
		}
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
		h.log.Debug("sent stateless qr", "format", format, "size", surface.Size())
		return
	}

	data, err := render.EncodePNG(surface)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode PNG"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
	h.log.Debug("sent stateless qr", "format", format, "size", surface.Size())
}
