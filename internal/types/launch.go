package types

import (
	"time"
)

type Launch struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID int64     `gorm:"column:project_id;not null;index" json:"project_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Number    int       `gorm:"column:number;not null;default:1" json:"number"`
	Status    string    `gorm:"column:status;not null;index" json:"status"` // in_progress|passed|failed|stopped|interrupted
	StartTime time.Time `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
}

func (Launch) TableName() string { return "launch" }
