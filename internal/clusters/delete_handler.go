package clusters

import (
	"context"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/repos"
)

// DeleteClusterHandler bulk-removes a launch's clusters. Log FKs are cleared
// first so no log points at a deleted cluster.
type DeleteClusterHandler struct {
	clusterRepo repos.ClusterRepo
	logRepo     repos.LogRepo
	log         *logger.Logger
}

func NewDeleteClusterHandler(clusterRepo repos.ClusterRepo, logRepo repos.LogRepo, baseLog *logger.Logger) *DeleteClusterHandler {
	return &DeleteClusterHandler{
		clusterRepo: clusterRepo,
		logRepo:     logRepo,
		log:         baseLog.With("component", "DeleteClusterHandler"),
	}
}

func (h *DeleteClusterHandler) DeleteLaunchClusters(ctx context.Context, tx *gorm.DB, launchID int64) error {
	if err := h.logRepo.ClearClusterIDByLaunchID(ctx, tx, launchID); err != nil {
		return err
	}
	return h.clusterRepo.DeleteAllByLaunchID(ctx, tx, launchID)
}
