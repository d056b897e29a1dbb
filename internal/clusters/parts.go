package clusters

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/pipeline"
	"github.com/reportportal/service-api-sub011/internal/repos"
)

// ClusterLastRunKey is the system launch attribute holding the epoch millis
// of the last completed generation.
const ClusterLastRunKey = "rp.cluster.lastRun"

// PipelineConstructor builds the ordered part list for one generation. The
// order is fixed per job kind; parts share the config through closures.
type PipelineConstructor struct {
	providers     *ProviderFactory
	client        analyzer.Client
	createHandler *CreateClusterHandler
	attrRepo      repos.ItemAttributeRepo
	log           *logger.Logger
}

func NewPipelineConstructor(
	providers *ProviderFactory,
	client analyzer.Client,
	createHandler *CreateClusterHandler,
	attrRepo repos.ItemAttributeRepo,
	baseLog *logger.Logger,
) *PipelineConstructor {
	return &PipelineConstructor{
		providers:     providers,
		client:        client,
		createHandler: createHandler,
		attrRepo:      attrRepo,
		log:           baseLog.With("component", "ClusterPipelineConstructor"),
	}
}

func (pc *PipelineConstructor) Construct(cfg GenerateClustersConfig) []pipeline.Part {
	return []pipeline.Part{
		pc.generateClustersPart(cfg),
		pc.saveLastRunPart(cfg),
	}
}

// generateClustersPart assembles the request, performs the analyzer
// round-trip and persists the result. An empty request (no failed items or no
// error logs) skips the round-trip without failing the pipeline.
func (pc *PipelineConstructor) generateClustersPart(cfg GenerateClustersConfig) pipeline.Part {
	return pipeline.Part{
		Name: "generate_clusters",
		Run: func(ctx context.Context, tx *gorm.DB) error {
			rq, err := pc.providers.GetProvider(cfg).Provide(ctx, tx, cfg)
			if err != nil {
				return err
			}
			if rq == nil {
				pc.log.Info("Nothing to cluster", "launch_id", cfg.Entity.LaunchID)
				return nil
			}
			data, err := pc.client.GenerateClusters(ctx, rq)
			if err != nil {
				return err
			}
			return pc.createHandler.Create(ctx, tx, data)
		},
	}
}

func (pc *PipelineConstructor) saveLastRunPart(cfg GenerateClustersConfig) pipeline.Part {
	return pipeline.Part{
		Name: "save_last_run_attribute",
		Run: func(ctx context.Context, tx *gorm.DB) error {
			// The attribute is user-visible, not a system one.
			lastRun := strconv.FormatInt(time.Now().UnixMilli(), 10)
			attr, err := pc.attrRepo.FindByLaunchIDAndKeyAndSystem(ctx, tx, cfg.Entity.LaunchID, ClusterLastRunKey, false)
			if err != nil {
				return err
			}
			if attr != nil {
				attr.Value = lastRun
				return pc.attrRepo.Save(ctx, tx, attr)
			}
			return pc.attrRepo.SaveByLaunchID(ctx, tx, cfg.Entity.LaunchID, ClusterLastRunKey, lastRun, false)
		},
	}
}
