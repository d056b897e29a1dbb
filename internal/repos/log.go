package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type LogRepo interface {
	UpdateClusterIDByIDIn(ctx context.Context, tx *gorm.DB, clusterID int64, logIDs []int64) error
	// ClearClusterIDByLaunchID nulls the cluster FK of every log in the launch.
	// Called before the launch clusters are bulk-deleted so no dangling FK
	// survives the delete.
	ClearClusterIDByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) error
	FindErrorLogsByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) ([]*types.Log, error)
	FindErrorLogsByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int64) ([]*types.Log, error)
	FindByClusterID(ctx context.Context, tx *gorm.DB, clusterID int64) ([]*types.Log, error)
}

type logRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLogRepo(db *gorm.DB, baseLog *logger.Logger) LogRepo {
	return &logRepo{db: db, log: baseLog.With("repo", "LogRepo")}
}

func (r *logRepo) UpdateClusterIDByIDIn(ctx context.Context, tx *gorm.DB, clusterID int64, logIDs []int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Log{}).
		Where("id IN ?", logIDs).
		Update("cluster_id", clusterID).Error
}

func (r *logRepo) ClearClusterIDByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Log{}).
		Where("launch_id = ? AND cluster_id IS NOT NULL", launchID).
		Update("cluster_id", nil).Error
}

func (r *logRepo) FindErrorLogsByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) ([]*types.Log, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var logs []*types.Log
	err := transaction.WithContext(ctx).
		Where("launch_id = ? AND log_level >= ?", launchID, types.LogLevelError).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *logRepo) FindErrorLogsByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int64) ([]*types.Log, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var logs []*types.Log
	if len(itemIDs) == 0 {
		return logs, nil
	}
	err := transaction.WithContext(ctx).
		Where("item_id IN ? AND log_level >= ?", itemIDs, types.LogLevelError).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *logRepo) FindByClusterID(ctx context.Context, tx *gorm.DB, clusterID int64) ([]*types.Log, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var logs []*types.Log
	err := transaction.WithContext(ctx).
		Where("cluster_id = ?", clusterID).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
