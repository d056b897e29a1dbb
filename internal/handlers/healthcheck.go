package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
)

type HealthHandler struct {
	client analyzer.Client
}

func NewHealthHandler(client analyzer.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := gin.H{"status": "ok", "analyzers_registered": h.client.HasClients()}
	if h.client.HasClients() {
		if err := h.client.CheckAvailability(c.Request.Context()); err != nil {
			status["analyzers"] = "degraded"
			status["analyzer_error"] = err.Error()
			c.JSON(http.StatusOK, status)
			return
		}
		status["analyzers"] = "healthy"
	}
	c.JSON(http.StatusOK, status)
}
