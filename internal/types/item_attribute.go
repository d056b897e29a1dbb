package types

// ItemAttribute is a key/value pair attached to a launch. System attributes
// are internal bookkeeping entries not shown to users.
type ItemAttribute struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	LaunchID int64  `gorm:"column:launch_id;not null;index" json:"launch_id"`
	Key      string `gorm:"column:key;not null" json:"key"`
	Value    string `gorm:"column:value;not null" json:"value"`
	System   bool   `gorm:"column:system;not null;default:false" json:"system"`
}

func (ItemAttribute) TableName() string { return "item_attribute" }
