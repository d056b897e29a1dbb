package app

import (
	"github.com/gin-gonic/gin"

	"github.com/reportportal/service-api-sub011/internal/handlers"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/server"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Cluster  *handlers.ClusterHandler
	Analyzer *handlers.AnalyzerHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(services.AnalyzerClient),
		Cluster:  handlers.NewClusterHandler(services.Generator, services.ClusterService),
		Analyzer: handlers.NewAnalyzerHandler(services.AnalyzerRegistry),
	}
}

func wireRouter(cfg Config, log *logger.Logger, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		Log:             log,
		HealthHandler:   handlerset.Health,
		ClusterHandler:  handlerset.Cluster,
		AnalyzerHandler: handlerset.Analyzer,
	})
}
