package clusters

import (
	"github.com/reportportal/service-api-sub011/internal/analyzer"
)

// ClusterEntityContext identifies the unit of work for one generation.
// Empty ItemIDs means the whole launch is clustered for the first time.
type ClusterEntityContext struct {
	LaunchID  int64
	ProjectID int64
	ItemIDs   []int64
}

func NewEntityContext(launchID, projectID int64, itemIDs ...int64) ClusterEntityContext {
	return ClusterEntityContext{LaunchID: launchID, ProjectID: projectID, ItemIDs: itemIDs}
}

// GenerateClustersConfig is the full job description handed to the generator.
type GenerateClustersConfig struct {
	Entity         ClusterEntityContext
	AnalyzerConfig analyzer.Config
	// ForUpdate marks an incremental re-cluster of already clustered items;
	// it is set exactly when the entity context carries item ids.
	ForUpdate bool
	// CleanNumbers strips numeric tokens from messages before clustering so
	// "line 12 failed" and "line 47 failed" group together.
	CleanNumbers bool
}

func NewGenerateClustersConfig(entity ClusterEntityContext, analyzerConfig analyzer.Config, cleanNumbers bool) GenerateClustersConfig {
	return GenerateClustersConfig{
		Entity:         entity,
		AnalyzerConfig: analyzerConfig,
		ForUpdate:      len(entity.ItemIDs) > 0,
		CleanNumbers:   cleanNumbers,
	}
}
