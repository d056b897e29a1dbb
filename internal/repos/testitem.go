package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type TestItemRepo interface {
	FindFailedByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) ([]*types.TestItem, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.TestItem, error)
}

type testItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestItemRepo(db *gorm.DB, baseLog *logger.Logger) TestItemRepo {
	return &testItemRepo{db: db, log: baseLog.With("repo", "TestItemRepo")}
}

func (r *testItemRepo) FindFailedByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) ([]*types.TestItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []*types.TestItem
	err := transaction.WithContext(ctx).
		Where("launch_id = ? AND has_stats AND status IN ?",
			launchID, []string{types.StatusFailed, types.StatusInterrupted}).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *testItemRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.TestItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []*types.TestItem
	if len(ids) == 0 {
		return items, nil
	}
	err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
