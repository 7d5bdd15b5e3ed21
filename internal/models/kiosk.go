package models

import (
	"time"
)

type Kiosk struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerId   int       `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Active    bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Kiosk) TableName() string {
	return "kiosks"
}
