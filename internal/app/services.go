package app

import (
	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/clusters"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/pipeline"
	"github.com/reportportal/service-api-sub011/internal/utils"
)

type Services struct {
	AnalyzerRegistry *analyzer.Registry
	AnalyzerClient   analyzer.Client
	StatusCache      *clusters.StatusCache
	Executor         *clusters.TaskExecutor
	EventBus         clusters.EventBus
	Generator        *clusters.Generator
	ClusterService   clusters.Service
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	registry, err := analyzer.NewRegistryFromEnv(log)
	if err != nil {
		return Services{}, err
	}
	client := analyzer.NewHTTPClient(registry, log)

	var events clusters.EventBus
	if utils.GetEnv("REDIS_ADDR", "", log) != "" {
		events, err = clusters.NewRedisEventBus(log)
		if err != nil {
			return Services{}, err
		}
	} else {
		log.Info("No REDIS_ADDR configured, generation events disabled")
		events = clusters.NewNoopBus()
	}

	cache := clusters.NewStatusCache()
	executor := clusters.NewTaskExecutor(cfg.ExecutorWorkers, cfg.ExecutorQueueSize, log)

	providers := clusters.NewProviderFactory(reposet.Launch, reposet.TestItem, reposet.Log, log)
	createHandler := clusters.NewCreateClusterHandler(reposet.Cluster, reposet.Log, log)
	deleteHandler := clusters.NewDeleteClusterHandler(reposet.Cluster, reposet.Log, log)
	constructor := clusters.NewPipelineConstructor(providers, client, createHandler, reposet.ItemAttribute, log)
	pipe := pipeline.NewTransactionalPipeline(db, log)

	generator := clusters.NewGenerator(
		cfg.ExecutionMode,
		cache,
		client,
		constructor,
		pipe,
		deleteHandler,
		executor,
		reposet.GenerationRuns,
		events,
		log,
	)

	return Services{
		AnalyzerRegistry: registry,
		AnalyzerClient:   client,
		StatusCache:      cache,
		Executor:         executor,
		EventBus:         events,
		Generator:        generator,
		ClusterService:   clusters.NewService(reposet.Cluster, reposet.Log, reposet.GenerationRuns, log),
	}, nil
}
