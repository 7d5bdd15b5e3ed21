package models

import (
	"time"
)

// SystemSetting is the mutable key-value configuration store (fee,
// commission, ceilings). Services never read it ad hoc; config.Load
// snapshots it once per operation.
type SystemSetting struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:setting_key;size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:setting_value;size:255;not null" json:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
