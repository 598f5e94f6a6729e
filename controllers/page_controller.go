package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/views"
)

const (
	genericErrorMessage = "An unexpected error occurred."
	throttledMessage    = "Too many booking attempts. Please wait a minute and try again."
	notFoundMessage     = "The page you are looking for was not found."
)

// PageController renders pages through the shared layout. The booking and
// design controllers embed it.
type PageController struct {
	Views *views.Renderer
	// Dev adds diagnostic detail to error pages.
	Dev           bool
	DesignEnabled bool
}

func NewPageController(v *views.Renderer, dev, designEnabled bool) *PageController {
	return &PageController{Views: v, Dev: dev, DesignEnabled: designEnabled}
}

func (pc *PageController) page(title string) views.Page {
	return views.Page{Title: title, DesignEnabled: pc.DesignEnabled}
}

// Render writes page with status. A template failure is replaced by the
// error page so the client never receives a truncated document.
func (pc *PageController) Render(c *gin.Context, status int, page string, data any) {
	var buf bytes.Buffer
	if err := pc.Views.Execute(&buf, page, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to render %s page: %v", page, err)
		if page == views.Error {
			c.String(http.StatusInternalServerError, genericErrorMessage)
			return
		}
		pc.RenderError(c, http.StatusInternalServerError, "Error", genericErrorMessage, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// RenderError shows message on the error page. detail is only displayed in
// development.
func (pc *PageController) RenderError(c *gin.Context, status int, title, message string, detail error) {
	data := views.ErrorPage{Page: pc.page(title), Message: message}
	if pc.Dev && detail != nil {
		data.Detail = detail.Error()
	}
	pc.Render(c, status, views.Error, data)
}

func (pc *PageController) NotFound(c *gin.Context) {
	var detail error
	if pc.Dev {
		detail = errNotFound{path: c.Request.URL.Path}
	}
	pc.RenderError(c, http.StatusNotFound, "Not Found", notFoundMessage, detail)
}

// TooManyRequests is the response for any throttled request.
func (pc *PageController) TooManyRequests(c *gin.Context) {
	pc.RenderError(c, http.StatusTooManyRequests, "Error", throttledMessage, nil)
}

func (pc *PageController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type errNotFound struct{ path string }

func (e errNotFound) Error() string { return "404: no route for " + e.path }
