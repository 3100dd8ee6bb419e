package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// render adds the request-wide values every page needs.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user := currentUser(c); user != nil {
		data["user"] = user
	}
	c.HTML(status, name, data)
}

// fail maps a service error onto an error page.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.notFound(c)
		return
	}
	h.log.Error("request failed",
		logger.Error(err),
		logger.String("method", c.Request.Method),
		logger.String("path", c.Request.URL.Path),
		logger.String("request_id", c.GetString(ctxRequestID)),
	)
	h.render(c, http.StatusInternalServerError, "errors/500.html", nil)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "errors/404.html", nil)
}

func currentUser(c *gin.Context) *models.Driver {
	if v, ok := c.Get(ctxUser); ok {
		if d, ok := v.(*models.Driver); ok {
			return d
		}
	}
	return nil
}
