package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type ClusterRepo interface {
	// Save upserts by the (launch_id, index_id) natural key and fills in the
	// canonical row id on the passed struct.
	Save(ctx context.Context, tx *gorm.DB, cluster *types.Cluster) error
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Cluster, error)
	FindAllByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64, offset, limit int) ([]*types.Cluster, int64, error)
	DeleteAllByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) error
}

type clusterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClusterRepo(db *gorm.DB, baseLog *logger.Logger) ClusterRepo {
	return &clusterRepo{db: db, log: baseLog.With("repo", "ClusterRepo")}
}

func (r *clusterRepo) Save(ctx context.Context, tx *gorm.DB, cluster *types.Cluster) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if cluster == nil {
		return nil
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "launch_id"}, {Name: "index_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"message", "project_id"}),
		}).
		Create(cluster).Error
	if err != nil {
		return err
	}
	// On a conflict-update the autoincrement id of the existing row is not
	// reported back, so read it by the natural key.
	var existing types.Cluster
	err = transaction.WithContext(ctx).
		Where("launch_id = ? AND index_id = ?", cluster.LaunchID, cluster.IndexID).
		Take(&existing).Error
	if err != nil {
		return err
	}
	cluster.ID = existing.ID
	return nil
}

func (r *clusterRepo) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Cluster, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cluster types.Cluster
	err := transaction.WithContext(ctx).Where("id = ?", id).Take(&cluster).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (r *clusterRepo) FindAllByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64, offset, limit int) ([]*types.Cluster, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Cluster{}).
		Where("launch_id = ?", launchID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var clusters []*types.Cluster
	q := transaction.WithContext(ctx).
		Where("launch_id = ?", launchID).
		Order("id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&clusters).Error; err != nil {
		return nil, 0, err
	}
	return clusters, total, nil
}

func (r *clusterRepo) DeleteAllByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("launch_id = ?", launchID).
		Delete(&types.Cluster{}).Error
}
