package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
)

// AnalyzerHandler manages the analyzer registry at runtime, so instances can
// be added and drained without a restart.
type AnalyzerHandler struct {
	registry *analyzer.Registry
}

func NewAnalyzerHandler(registry *analyzer.Registry) *AnalyzerHandler {
	return &AnalyzerHandler{registry: registry}
}

// GET /api/v1/analyzers
func (h *AnalyzerHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"analyzers": h.registry.Instances()})
}

type registerAnalyzerRequest struct {
	Name     string `json:"name" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Priority int    `json:"priority"`
}

// PUT /api/v1/analyzers
func (h *AnalyzerHandler) Register(c *gin.Context) {
	var req registerAnalyzerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	h.registry.Register(analyzer.Instance{Name: req.Name, URL: req.URL, Priority: req.Priority})
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/analyzers/:name
func (h *AnalyzerHandler) Remove(c *gin.Context) {
	h.registry.Remove(c.Param("name"))
	c.Status(http.StatusNoContent)
}
