package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/clusters"
)

type ClusterHandler struct {
	generator *clusters.Generator
	service   clusters.Service
}

func NewClusterHandler(generator *clusters.Generator, service clusters.Service) *ClusterHandler {
	return &ClusterHandler{generator: generator, service: service}
}

type generateClustersRequest struct {
	LaunchID         int64   `json:"launchId" binding:"required"`
	ProjectID        int64   `json:"projectId" binding:"required"`
	ItemIDs          []int64 `json:"itemIds"`
	CleanNumbers     bool    `json:"cleanNumbers"`
	MinShouldMatch   int     `json:"minShouldMatch"`
	NumberOfLogLines int     `json:"numberOfLogLines"`
}

// POST /api/v1/clusters/generate
func (h *ClusterHandler) Generate(c *gin.Context) {
	var req generateClustersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cfg := clusters.NewGenerateClustersConfig(
		clusters.NewEntityContext(req.LaunchID, req.ProjectID, req.ItemIDs...),
		analyzer.Config{
			MinShouldMatch:   req.MinShouldMatch,
			NumberOfLogLines: req.NumberOfLogLines,
		},
		req.CleanNumbers,
	)
	if err := h.generator.Generate(c.Request.Context(), cfg); err != nil {
		RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"launchId": req.LaunchID})
}

// GET /api/v1/clusters/:id
func (h *ClusterHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_cluster_id", err)
		return
	}
	resource, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, resource)
}

// GET /api/v1/clusters/:id/logs
func (h *ClusterHandler) GetLogs(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_cluster_id", err)
		return
	}
	logs, err := h.service.GetLogs(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"logs": logs})
}

// GET /api/v1/launches/:launchId/clusters
func (h *ClusterHandler) GetResources(c *gin.Context) {
	launchID, err := strconv.ParseInt(c.Param("launchId"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_launch_id", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	resources, err := h.service.GetResources(c.Request.Context(), launchID, page, size)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, resources)
}

// GET /api/v1/launches/:launchId/clusters/generation
func (h *ClusterHandler) GetLatestRun(c *gin.Context) {
	launchID, err := strconv.ParseInt(c.Param("launchId"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_launch_id", err)
		return
	}
	run, err := h.service.GetLatestRun(c.Request.Context(), launchID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	if run == nil {
		RespondError(c, http.StatusNotFound, "generation_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"run": run})
}
