package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type ItemAttributeRepo interface {
	FindByLaunchIDAndKeyAndSystem(ctx context.Context, tx *gorm.DB, launchID int64, key string, system bool) (*types.ItemAttribute, error)
	Save(ctx context.Context, tx *gorm.DB, attr *types.ItemAttribute) error
	SaveByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64, key, value string, system bool) error
}

type itemAttributeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemAttributeRepo(db *gorm.DB, baseLog *logger.Logger) ItemAttributeRepo {
	return &itemAttributeRepo{db: db, log: baseLog.With("repo", "ItemAttributeRepo")}
}

func (r *itemAttributeRepo) FindByLaunchIDAndKeyAndSystem(ctx context.Context, tx *gorm.DB, launchID int64, key string, system bool) (*types.ItemAttribute, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var attr types.ItemAttribute
	err := transaction.WithContext(ctx).
		Where("launch_id = ? AND key = ? AND system = ?", launchID, key, system).
		Take(&attr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *itemAttributeRepo) Save(ctx context.Context, tx *gorm.DB, attr *types.ItemAttribute) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if attr == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(attr).Error
}

func (r *itemAttributeRepo) SaveByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64, key, value string, system bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	attr := &types.ItemAttribute{
		LaunchID: launchID,
		Key:      key,
		Value:    value,
		System:   system,
	}
	return transaction.WithContext(ctx).Create(attr).Error
}
