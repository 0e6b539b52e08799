package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// Handler holds the dependencies shared by the HTTP handlers.
type Handler struct {
	studio   *studio.Studio
	sessions *session.Manager
	enc      render.Encoder
	log      *slog.Logger
}

// New returns a Handler serving st. enc backs the stateless /api/qr endpoint.
func New(st *studio.Studio, sessions *session.Manager, enc render.Encoder, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{studio: st, sessions: sessions, enc: enc, log: log}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/sitemap.xml", h.SitemapXML)
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.GET("/download", h.Download)
		api.POST("/logo", h.UploadLogo)
		api.DELETE("/logo", h.RemoveLogo)
		api.GET("/history", h.History)
		api.POST("/history/:index/restore", h.Restore)
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/htmx/toast", h.GenericToast)
	}
}

// session returns the caller's session, issuing a cookie when a new one is
// made.
func (h *Handler) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(session.CookieName)
	sess, _ := h.sessions.GetOrCreate(id)
	if sess.ID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, sess.ID, 0, "/", "", c.Request.TLS != nil, true)
	}
	return sess
}

// isHTMX reports whether the request came from an htmx swap.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"engine":   h.studio.Engine(),
		"sessions": h.sessions.Len(),
	})
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	scheme := "https"
	host := c.Request.Host
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if c.Request.TLS == nil && hostIsLocal(host) {
		scheme = "http"
	}
	base := scheme + "://" + host
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + base + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}

func hostIsLocal(host string) bool {
	for _, prefix := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if host == prefix || len(host) > len(prefix) && host[:len(prefix)+1] == prefix+":" {
			return true
		}
	}
	return false
}
