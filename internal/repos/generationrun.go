package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

type GenerationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ClusterGenerationRun) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, errMsg string) error
	GetLatestByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) (*types.ClusterGenerationRun, error)
}

type generationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	return &generationRunRepo{db: db, log: baseLog.With("repo", "GenerationRunRepo")}
}

func (r *generationRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ClusterGenerationRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return transaction.WithContext(ctx).Create(run).Error
}

func (r *generationRunRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, errMsg string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{
		"status": status,
		"error":  errMsg,
	}
	if status == types.GenerationStatusSucceeded || status == types.GenerationStatusFailed {
		now := time.Now()
		updates["finished_at"] = &now
	}
	return transaction.WithContext(ctx).
		Model(&types.ClusterGenerationRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *generationRunRepo) GetLatestByLaunchID(ctx context.Context, tx *gorm.DB, launchID int64) (*types.ClusterGenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.ClusterGenerationRun
	err := transaction.WithContext(ctx).
		Where("launch_id = ?", launchID).
		Order("started_at DESC").
		Limit(1).
		Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
