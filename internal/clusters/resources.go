package clusters

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/platform/apierr"
	"github.com/reportportal/service-api-sub011/internal/repos"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type ClusterInfoResource struct {
	ID       int64  `json:"id"`
	Index    int64  `json:"index"`
	LaunchID int64  `json:"launchId"`
	Message  string `json:"message"`
}

type ClusterPage struct {
	Content       []ClusterInfoResource `json:"content"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	TotalElements int64                 `json:"totalElements"`
}

// Service is the read-only cluster surface consumed by the presentation
// layer.
type Service interface {
	GetByID(ctx context.Context, id int64) (*ClusterInfoResource, error)
	// GetResources pages a launch's clusters sorted ascending by id. Page is
	// zero-based.
	GetResources(ctx context.Context, launchID int64, page, size int) (*ClusterPage, error)
	// GetLogs returns the logs assigned to a cluster.
	GetLogs(ctx context.Context, clusterID int64) ([]*types.Log, error)
	GetLatestRun(ctx context.Context, launchID int64) (*types.ClusterGenerationRun, error)
}

type service struct {
	clusterRepo repos.ClusterRepo
	logRepo     repos.LogRepo
	runs        repos.GenerationRunRepo
	log         *logger.Logger
}

func NewService(clusterRepo repos.ClusterRepo, logRepo repos.LogRepo, runs repos.GenerationRunRepo, baseLog *logger.Logger) Service {
	return &service{
		clusterRepo: clusterRepo,
		logRepo:     logRepo,
		runs:        runs,
		log:         baseLog.With("component", "ClusterService"),
	}
}

func (s *service) GetByID(ctx context.Context, id int64) (*ClusterInfoResource, error) {
	cluster, err := s.clusterRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if cluster == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeClusterNotFound,
			fmt.Errorf("cluster %d not found", id))
	}
	resource := toResource(cluster)
	return &resource, nil
}

func (s *service) GetResources(ctx context.Context, launchID int64, page, size int) (*ClusterPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}
	clusters, total, err := s.clusterRepo.FindAllByLaunchID(ctx, nil, launchID, page*size, size)
	if err != nil {
		return nil, err
	}
	content := make([]ClusterInfoResource, 0, len(clusters))
	for _, c := range clusters {
		content = append(content, toResource(c))
	}
	return &ClusterPage{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
	}, nil
}

func (s *service) GetLogs(ctx context.Context, clusterID int64) ([]*types.Log, error) {
	cluster, err := s.clusterRepo.FindByID(ctx, nil, clusterID)
	if err != nil {
		return nil, err
	}
	if cluster == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeClusterNotFound,
			fmt.Errorf("cluster %d not found", clusterID))
	}
	return s.logRepo.FindByClusterID(ctx, nil, cluster.ID)
}

func (s *service) GetLatestRun(ctx context.Context, launchID int64) (*types.ClusterGenerationRun, error) {
	return s.runs.GetLatestByLaunchID(ctx, nil, launchID)
}

func toResource(c *types.Cluster) ClusterInfoResource {
	return ClusterInfoResource{
		ID:       c.ID,
		Index:    c.IndexID,
		LaunchID: c.LaunchID,
		Message:  c.Message,
	}
}
