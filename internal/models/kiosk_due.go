package models

import (
	"time"
)

// KioskDue is the gross liability a kiosk owner owes upstream for one
// completed transaction. Only is_paid (and the collector) ever changes.
type KioskDue struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	KioskId       int       `gorm:"column:kiosk_id;not null;index" json:"kiosk_id"`
	TransactionId int       `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	Amount        float64   `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	IsPaid        bool      `gorm:"column:is_paid;default:false" json:"is_paid"`
	CollectorId   *int      `gorm:"column:collector_id" json:"collector_id,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (KioskDue) TableName() string {
	return "kiosk_dues"
}
