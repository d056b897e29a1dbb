package types

// Cluster groups error logs of one launch that the analyzer judged similar.
// IndexID is the analyzer's opaque cluster identifier; (launch_id, index_id)
// is the natural key used for idempotent upserts.
type Cluster struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	IndexID   int64  `gorm:"column:index_id;not null;uniqueIndex:idx_cluster_launch_index" json:"index_id"`
	LaunchID  int64  `gorm:"column:launch_id;not null;uniqueIndex:idx_cluster_launch_index;index" json:"launch_id"`
	ProjectID int64  `gorm:"column:project_id;not null;index" json:"project_id"`
	Message   string `gorm:"column:message;not null" json:"message"`
}

func (Cluster) TableName() string { return "clusters" }
