package models

import (
	"time"
)

// WorkerProfile statuses
const (
	ProfilePending  = "PENDING"
	ProfileActive   = "ACTIVE"
	ProfileDeparted = "DEPARTED"
)

// WorkerProfile binds a worker identity to one kiosk. The profile id is the
// scoping key for goals and commission accounting; a worker holding jobs at
// several kiosks holds one profile per kiosk.
type WorkerProfile struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId    int       `gorm:"column:user_id;not null;index:idx_profile_user_kiosk" json:"user_id"`
	KioskId   int       `gorm:"column:kiosk_id;not null;index:idx_profile_user_kiosk" json:"kiosk_id"`
	Status    string    `gorm:"column:status;size:20;not null;default:PENDING" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WorkerProfile) TableName() string {
	return "worker_profiles"
}
