package types

import "time"

// Log levels follow the numeric scale the reporters send.
const (
	LogLevelTrace = 10000
	LogLevelDebug = 20000
	LogLevelInfo  = 30000
	LogLevelWarn  = 40000
	LogLevelError = 50000
	LogLevelFatal = 60000
)

type Log struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LaunchID  int64     `gorm:"column:launch_id;not null;index" json:"launch_id"`
	ItemID    int64     `gorm:"column:item_id;not null;index" json:"item_id"`
	ClusterID *int64    `gorm:"column:cluster_id;index" json:"cluster_id,omitempty"`
	LogLevel  int       `gorm:"column:log_level;not null;index" json:"log_level"`
	Message   string    `gorm:"column:log_message;not null" json:"message"`
	LogTime   time.Time `gorm:"column:log_time;not null" json:"log_time"`
}

func (Log) TableName() string { return "log" }
