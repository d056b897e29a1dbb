package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type LaunchRepo interface {
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Launch, error)
}

type launchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLaunchRepo(db *gorm.DB, baseLog *logger.Logger) LaunchRepo {
	return &launchRepo{db: db, log: baseLog.With("repo", "LaunchRepo")}
}

func (r *launchRepo) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Launch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var launch types.Launch
	err := transaction.WithContext(ctx).Where("id = ?", id).Take(&launch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &launch, nil
}
