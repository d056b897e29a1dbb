package clusters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/pipeline"
	"github.com/reportportal/service-api-sub011/internal/platform/apierr"
	"github.com/reportportal/service-api-sub011/internal/repos"
	"github.com/reportportal/service-api-sub011/internal/types"
)

// ExecutionMode selects how the generation pipeline runs: on the caller's
// goroutine or fire-and-forget on the dedicated executor.
type ExecutionMode int

const (
	ModeInline ExecutionMode = iota
	ModeBackground
)

func (m ExecutionMode) String() string {
	if m == ModeBackground {
		return "background"
	}
	return "inline"
}

// Generator orchestrates unique-error cluster generation for a launch.
//
// Precondition failures (no analyzer registered, generation already in
// progress) surface to the caller. Once the job is marked in progress every
// later failure is logged, recorded on the generation run and swallowed:
// finishing a launch must not fail because clustering did. The status cache
// marker is released on every path.
type Generator struct {
	mode          ExecutionMode
	cache         *StatusCache
	client        analyzer.Client
	constructor   *PipelineConstructor
	pipe          *pipeline.TransactionalPipeline
	deleteHandler *DeleteClusterHandler
	executor      *TaskExecutor
	runs          repos.GenerationRunRepo
	events        EventBus
	log           *logger.Logger
}

func NewGenerator(
	mode ExecutionMode,
	cache *StatusCache,
	client analyzer.Client,
	constructor *PipelineConstructor,
	pipe *pipeline.TransactionalPipeline,
	deleteHandler *DeleteClusterHandler,
	executor *TaskExecutor,
	runs repos.GenerationRunRepo,
	events EventBus,
	baseLog *logger.Logger,
) *Generator {
	return &Generator{
		mode:          mode,
		cache:         cache,
		client:        client,
		constructor:   constructor,
		pipe:          pipe,
		deleteHandler: deleteHandler,
		executor:      executor,
		runs:          runs,
		events:        events,
		log:           baseLog.With("component", "ClusterGenerator", "mode", mode.String()),
	}
}

// Generate starts cluster generation for the configured launch. Only
// precondition violations are returned; a failure after the in-progress
// marker is taken is a best-effort loss observable via logs, the generation
// run record and the event bus.
func (g *Generator) Generate(ctx context.Context, cfg GenerateClustersConfig) error {
	if !g.client.HasClients() {
		return apierr.New(http.StatusConflict, apierr.CodeAnalyzerUnavailable,
			errors.New("there are no analyzer services deployed"))
	}
	if !g.cache.TryMarkStarted(ClusterKey, cfg.Entity.LaunchID, cfg.Entity.ProjectID) {
		return apierr.New(http.StatusConflict, apierr.CodeGenerationInProgress,
			errors.New("clusters creation is in progress"))
	}

	// Background jobs sit in the executor queue first; inline ones run at once.
	initial := types.GenerationStatusRunning
	if g.mode == ModeBackground {
		initial = types.GenerationStatusQueued
	}
	runID := g.recordStart(ctx, cfg, initial)
	g.publish(ctx, cfg, runID, initial, nil)

	// A fresh generation drops the old clusters before anything else runs, so
	// a failed attempt leaves the launch with zero clusters rather than stale
	// ones.
	if !cfg.ForUpdate {
		if err := g.deleteHandler.DeleteLaunchClusters(ctx, nil, cfg.Entity.LaunchID); err != nil {
			g.cache.AnalyzeFinished(ClusterKey, cfg.Entity.LaunchID)
			g.log.Error("Failed to delete launch clusters",
				"launch_id", cfg.Entity.LaunchID, "project_id", cfg.Entity.ProjectID, "error", err)
			g.finish(ctx, cfg, runID, err)
			return nil
		}
	}

	if g.mode == ModeBackground {
		if err := g.executor.Submit(func(taskCtx context.Context) {
			g.runPipeline(taskCtx, cfg, runID)
		}); err != nil {
			g.cache.AnalyzeFinished(ClusterKey, cfg.Entity.LaunchID)
			g.log.Error("Failed to submit cluster generation task",
				"launch_id", cfg.Entity.LaunchID, "project_id", cfg.Entity.ProjectID, "error", err)
			g.finish(ctx, cfg, runID, err)
		}
		return nil
	}

	g.runPipeline(ctx, cfg, runID)
	return nil
}

// runPipeline owns the job lifetime from here on, including marker release.
func (g *Generator) runPipeline(ctx context.Context, cfg GenerateClustersConfig, runID uuid.UUID) {
	defer g.cache.AnalyzeFinished(ClusterKey, cfg.Entity.LaunchID)

	if g.mode == ModeBackground {
		if err := g.runs.UpdateStatus(ctx, nil, runID, types.GenerationStatusRunning, ""); err != nil {
			g.log.Warn("Failed to mark generation run running", "run_id", runID, "error", err)
		}
		g.publish(ctx, cfg, runID, types.GenerationStatusRunning, nil)
	}

	parts := g.constructor.Construct(cfg)
	if err := g.pipe.Run(ctx, parts); err != nil {
		g.log.Error("Cluster generation failed",
			"launch_id", cfg.Entity.LaunchID, "project_id", cfg.Entity.ProjectID, "error", err)
		g.finish(ctx, cfg, runID, err)
		return
	}
	g.log.Info("Cluster generation finished",
		"launch_id", cfg.Entity.LaunchID, "project_id", cfg.Entity.ProjectID)
	g.finish(ctx, cfg, runID, nil)
}

// recordStart persists the generation run row. Bookkeeping only: a failure
// here never blocks the generation itself.
func (g *Generator) recordStart(ctx context.Context, cfg GenerateClustersConfig, status string) uuid.UUID {
	run := &types.ClusterGenerationRun{
		ID:        uuid.New(),
		LaunchID:  cfg.Entity.LaunchID,
		ProjectID: cfg.Entity.ProjectID,
		Mode:      g.mode.String(),
		ForUpdate: cfg.ForUpdate,
		Status:    status,
		StartedAt: time.Now(),
	}
	if snapshot, err := json.Marshal(cfg); err == nil {
		run.Config = datatypes.JSON(snapshot)
	}
	if err := g.runs.Create(ctx, nil, run); err != nil {
		g.log.Warn("Failed to record generation run", "launch_id", cfg.Entity.LaunchID, "error", err)
	}
	return run.ID
}

func (g *Generator) finish(ctx context.Context, cfg GenerateClustersConfig, runID uuid.UUID, runErr error) {
	status := types.GenerationStatusSucceeded
	errMsg := ""
	if runErr != nil {
		status = types.GenerationStatusFailed
		errMsg = runErr.Error()
	}
	if err := g.runs.UpdateStatus(ctx, nil, runID, status, errMsg); err != nil {
		g.log.Warn("Failed to update generation run", "run_id", runID, "error", err)
	}
	g.publish(ctx, cfg, runID, status, runErr)
}

func (g *Generator) publish(ctx context.Context, cfg GenerateClustersConfig, runID uuid.UUID, status string, runErr error) {
	ev := GenerationEvent{
		RunID:     runID,
		LaunchID:  cfg.Entity.LaunchID,
		ProjectID: cfg.Entity.ProjectID,
		Status:    status,
		At:        time.Now(),
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	if err := g.events.Publish(ctx, ev); err != nil {
		g.log.Warn("Failed to publish generation event", "run_id", runID, "error", err)
	}
}
