package pipeline

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
)

// Part is one unit of pipeline work. Parts share state through the closures
// that build them and may write to the database through the supplied
// transaction handle.
type Part struct {
	Name string
	Run  func(ctx context.Context, tx *gorm.DB) error
}

// TransactionalPipeline executes parts strictly in order inside a single
// database transaction. The first error aborts the remaining parts and rolls
// back everything written so far. No retries.
type TransactionalPipeline struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionalPipeline(db *gorm.DB, baseLog *logger.Logger) *TransactionalPipeline {
	return &TransactionalPipeline{db: db, log: baseLog.With("component", "TransactionalPipeline")}
}

func (p *TransactionalPipeline) Run(ctx context.Context, parts []Part) error {
	if len(parts) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, part := range parts {
			if part.Run == nil {
				continue
			}
			p.log.Debug("Running pipeline part", "part", part.Name)
			if err := part.Run(ctx, tx); err != nil {
				return fmt.Errorf("pipeline part %q: %w", part.Name, err)
			}
		}
		return nil
	})
}
