package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GenerationStatusQueued    = "queued"
	GenerationStatusRunning   = "running"
	GenerationStatusSucceeded = "succeeded"
	GenerationStatusFailed    = "failed"
)

// ClusterGenerationRun records one generation attempt per launch. Background
// failures never reach the caller, so this row is the only durable trace of
// what happened to a fire-and-forget job.
type ClusterGenerationRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LaunchID   int64          `gorm:"column:launch_id;not null;index" json:"launch_id"`
	ProjectID  int64          `gorm:"column:project_id;not null;index" json:"project_id"`
	Mode       string         `gorm:"column:mode;not null" json:"mode"` // inline|background
	ForUpdate  bool           `gorm:"column:for_update;not null;default:false" json:"for_update"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	Config     datatypes.JSON `gorm:"type:jsonb;column:config" json:"config,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (ClusterGenerationRun) TableName() string { return "cluster_generation_run" }
