package clusters

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/platform/apierr"
	"github.com/reportportal/service-api-sub011/internal/repos"
	"github.com/reportportal/service-api-sub011/internal/types"
)

// ClusterDataProvider assembles the analyzer request for one generation.
// A nil request with a nil error means there is nothing to cluster.
type ClusterDataProvider interface {
	Provide(ctx context.Context, tx *gorm.DB, cfg GenerateClustersConfig) (*analyzer.GenerateClustersRq, error)
}

// ProviderFactory picks the provider variant for a config: launch-based for a
// fresh whole-launch generation, item-based for an incremental re-cluster.
type ProviderFactory struct {
	launch *launchClusterDataProvider
	item   *itemClusterDataProvider
}

func NewProviderFactory(launchRepo repos.LaunchRepo, itemRepo repos.TestItemRepo, logRepo repos.LogRepo, baseLog *logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		launch: &launchClusterDataProvider{
			launchRepo: launchRepo,
			itemRepo:   itemRepo,
			logRepo:    logRepo,
			log:        baseLog.With("component", "LaunchClusterDataProvider"),
		},
		item: &itemClusterDataProvider{
			launchRepo: launchRepo,
			itemRepo:   itemRepo,
			logRepo:    logRepo,
			log:        baseLog.With("component", "ItemClusterDataProvider"),
		},
	}
}

func (f *ProviderFactory) GetProvider(cfg GenerateClustersConfig) ClusterDataProvider {
	if cfg.ForUpdate {
		return f.item
	}
	return f.launch
}

type launchClusterDataProvider struct {
	launchRepo repos.LaunchRepo
	itemRepo   repos.TestItemRepo
	logRepo    repos.LogRepo
	log        *logger.Logger
}

func (p *launchClusterDataProvider) Provide(ctx context.Context, tx *gorm.DB, cfg GenerateClustersConfig) (*analyzer.GenerateClustersRq, error) {
	launch, err := p.launchRepo.FindByID(ctx, tx, cfg.Entity.LaunchID)
	if err != nil {
		return nil, err
	}
	if launch == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeLaunchNotFound,
			fmt.Errorf("launch %d not found", cfg.Entity.LaunchID))
	}
	items, err := p.itemRepo.FindFailedByLaunchID(ctx, tx, cfg.Entity.LaunchID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		p.log.Debug("Launch has no failed items, nothing to cluster", "launch_id", cfg.Entity.LaunchID)
		return nil, nil
	}
	// All of the launch's error logs; grouping keeps only the failed items'.
	logs, err := p.logRepo.FindErrorLogsByLaunchID(ctx, tx, cfg.Entity.LaunchID)
	if err != nil {
		return nil, err
	}
	indexItems := groupLogsByItem(items, logs)
	if len(indexItems) == 0 {
		p.log.Debug("Failed items carry no error logs, nothing to cluster", "launch_id", cfg.Entity.LaunchID)
		return nil, nil
	}
	return buildRequest(launch, nil, indexItems, cfg), nil
}

type itemClusterDataProvider struct {
	launchRepo repos.LaunchRepo
	itemRepo   repos.TestItemRepo
	logRepo    repos.LogRepo
	log        *logger.Logger
}

func (p *itemClusterDataProvider) Provide(ctx context.Context, tx *gorm.DB, cfg GenerateClustersConfig) (*analyzer.GenerateClustersRq, error) {
	launch, err := p.launchRepo.FindByID(ctx, tx, cfg.Entity.LaunchID)
	if err != nil {
		return nil, err
	}
	if launch == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeLaunchNotFound,
			fmt.Errorf("launch %d not found", cfg.Entity.LaunchID))
	}
	items, err := p.itemRepo.FindByIDs(ctx, tx, cfg.Entity.ItemIDs)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		p.log.Debug("No items found for re-clustering", "launch_id", cfg.Entity.LaunchID)
		return nil, nil
	}
	logs, err := p.logRepo.FindErrorLogsByItemIDs(ctx, tx, cfg.Entity.ItemIDs)
	if err != nil {
		return nil, err
	}
	indexItems := groupLogsByItem(items, logs)
	if len(indexItems) == 0 {
		p.log.Debug("Items carry no error logs, nothing to cluster", "launch_id", cfg.Entity.LaunchID)
		return nil, nil
	}
	return buildRequest(launch, cfg.Entity.ItemIDs, indexItems, cfg), nil
}

// groupLogsByItem keeps item order and drops items without error logs.
func groupLogsByItem(items []*types.TestItem, logs []*types.Log) []analyzer.IndexTestItem {
	byItem := make(map[int64][]analyzer.IndexLog, len(items))
	for _, l := range logs {
		byItem[l.ItemID] = append(byItem[l.ItemID], analyzer.IndexLog{
			LogID:    l.ID,
			LogLevel: l.LogLevel,
			Message:  l.Message,
		})
	}
	out := make([]analyzer.IndexTestItem, 0, len(items))
	for _, item := range items {
		itemLogs := byItem[item.ID]
		if len(itemLogs) == 0 {
			continue
		}
		out = append(out, analyzer.IndexTestItem{ItemID: item.ID, Logs: itemLogs})
	}
	return out
}

func buildRequest(launch *types.Launch, itemIDs []int64, items []analyzer.IndexTestItem, cfg GenerateClustersConfig) *analyzer.GenerateClustersRq {
	return &analyzer.GenerateClustersRq{
		LaunchID:         launch.ID,
		LaunchName:       launch.Name,
		Project:          cfg.Entity.ProjectID,
		ItemIDs:          itemIDs,
		Items:            items,
		AnalyzerConfig:   cfg.AnalyzerConfig,
		CleanNumbers:     cfg.CleanNumbers,
		ForUpdate:        cfg.ForUpdate,
		NumberOfLogLines: cfg.AnalyzerConfig.NumberOfLogLines,
	}
}
