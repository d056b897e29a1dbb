package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reportportal/service-api-sub011/internal/handlers"
	"github.com/reportportal/service-api-sub011/internal/logger"
)

type RouterConfig struct {
	ServiceName     string
	Log             *logger.Logger
	HealthHandler   *handlers.HealthHandler
	ClusterHandler  *handlers.ClusterHandler
	AnalyzerHandler *handlers.AnalyzerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(cors.Default())

	r.GET("/health", cfg.HealthHandler.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/clusters/generate", cfg.ClusterHandler.Generate)
		api.GET("/clusters/:id", cfg.ClusterHandler.GetByID)
		api.GET("/clusters/:id/logs", cfg.ClusterHandler.GetLogs)
		api.GET("/launches/:launchId/clusters", cfg.ClusterHandler.GetResources)
		api.GET("/launches/:launchId/clusters/generation", cfg.ClusterHandler.GetLatestRun)

		api.GET("/analyzers", cfg.AnalyzerHandler.List)
		api.PUT("/analyzers", cfg.AnalyzerHandler.Register)
		api.DELETE("/analyzers/:name", cfg.AnalyzerHandler.Remove)
	}

	return r
}
