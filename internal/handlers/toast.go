package handlers

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	toast "github.com/cristianadrielbraun/qrstudio/web/components/ui/toast"
)

const defaultToastDuration = 2000

func parseVariant(variant string) toast.Variant {
	switch variant {
	case "error", "destructive":
		return toast.VariantError
	case "warning":
		return toast.VariantWarning
	case "info":
		return toast.VariantInfo
	default:
		return toast.VariantSuccess
	}
}

func toastProps(title, description, variant string, dismissible bool) toast.Props {
	return toast.Props{
		Title:         title,
		Description:   description,
		Variant:       parseVariant(variant),
		Position:      toast.PositionBottomRight,
		Duration:      defaultToastDuration,
		Dismissible:   dismissible,
		ShowIndicator: false,
		Icon:          true,
	}
}

// toastComponent renders a toast inside the #toasts slot, swapped out of band.
func toastComponent(title, description, variant string, dismissible bool) templ.Component {
	return toast.Region(toastProps(title, description, variant, dismissible))
}

// GenericToast returns a Toast component rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
	props := toastProps(
		c.PostForm("title"),
		c.PostForm("description"),
		c.PostForm("variant"),
		c.PostForm("dismissible") == "on",
	)
	if d, err := strconv.Atoi(c.PostForm("duration")); err == nil && d >= 0 {
		props.Duration = d
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	if err := toast.Toast(props).Render(c.Request.Context(), c.Writer); err != nil {
		h.log.Error("render toast", "error", err)
	}
}
