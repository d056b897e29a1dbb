package clusters

import (
	"context"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/repos"
	"github.com/reportportal/service-api-sub011/internal/types"
)

// CreateClusterHandler persists an analyzer clustering result. Entries
// without a cluster id have no stable match and are skipped.
type CreateClusterHandler struct {
	clusterRepo repos.ClusterRepo
	logRepo     repos.LogRepo
	log         *logger.Logger
}

func NewCreateClusterHandler(clusterRepo repos.ClusterRepo, logRepo repos.LogRepo, baseLog *logger.Logger) *CreateClusterHandler {
	return &CreateClusterHandler{
		clusterRepo: clusterRepo,
		logRepo:     logRepo,
		log:         baseLog.With("component", "CreateClusterHandler"),
	}
}

func (h *CreateClusterHandler) Create(ctx context.Context, tx *gorm.DB, data *analyzer.ClusterData) error {
	if data == nil || len(data.Clusters) == 0 {
		return nil
	}
	for _, info := range data.Clusters {
		if info.ClusterID == nil {
			h.log.Debug("Skipping cluster entry without stable id", "launch_id", data.LaunchID)
			continue
		}
		cluster := &types.Cluster{
			IndexID:   *info.ClusterID,
			LaunchID:  data.LaunchID,
			ProjectID: data.Project,
			Message:   info.ClusterMessage,
		}
		if err := h.clusterRepo.Save(ctx, tx, cluster); err != nil {
			return err
		}
		if err := h.logRepo.UpdateClusterIDByIDIn(ctx, tx, cluster.ID, info.LogIDs); err != nil {
			return err
		}
	}
	return nil
}
