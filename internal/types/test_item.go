package types

import "time"

type TestItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LaunchID  int64     `gorm:"column:launch_id;not null;index" json:"launch_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Type      string    `gorm:"column:type;not null" json:"type"` // suite|test|step
	Status    string    `gorm:"column:status;not null;index" json:"status"`
	HasStats  bool      `gorm:"column:has_stats;not null;default:true" json:"has_stats"`
	StartTime time.Time `gorm:"column:start_time;not null" json:"start_time"`
}

func (TestItem) TableName() string { return "test_item" }

const (
	StatusFailed      = "failed"
	StatusPassed      = "passed"
	StatusInterrupted = "interrupted"
)
