package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"docsummary/internal/domain"
)

//go:embed templates/upload.html
var templateFS embed.FS

var uploadTemplate = template.Must(template.ParseFS(templateFS, "templates/upload.html"))

// HomeHandler serves the upload form.
type HomeHandler struct {
	defaultModel domain.ModelChoice
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{defaultModel: domain.DefaultModelChoice}
}

// Index handles GET /
func (h *HomeHandler) Index(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: uploadTemplate,
		Name:     "upload.html",
		Data: gin.H{
			"Models":       []domain.ModelChoice{domain.ModelClaude, domain.ModelGemini},
			"DefaultModel": h.defaultModel,
		},
	})
}
