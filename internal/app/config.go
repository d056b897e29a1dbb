package app

import (
	"strings"

	"github.com/reportportal/service-api-sub011/internal/clusters"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/utils"
)

type Config struct {
	ServiceName       string
	ServerPort        string
	ExecutionMode     clusters.ExecutionMode
	ExecutorWorkers   int
	ExecutorQueueSize int
}

func LoadConfig(log *logger.Logger) Config {
	mode := clusters.ModeBackground
	if strings.EqualFold(utils.GetEnv("CLUSTER_EXECUTION_MODE", "background", log), "inline") {
		mode = clusters.ModeInline
	}
	return Config{
		ServiceName:       utils.GetEnv("SERVICE_NAME", "cluster-service", log),
		ServerPort:        utils.GetEnv("SERVER_PORT", "8080", log),
		ExecutionMode:     mode,
		ExecutorWorkers:   utils.GetEnvAsInt("CLUSTER_EXECUTOR_WORKERS", 4, log),
		ExecutorQueueSize: utils.GetEnvAsInt("CLUSTER_EXECUTOR_QUEUE", 64, log),
	}
}
