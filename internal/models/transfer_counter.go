package models

import (
	"time"
)

// TransferCounter is the atomic daily-ceiling counter. One row per
// (sender, day) for the sender-wide ceiling, and one per
// (sender, receiver_phone, day) for the per-counterparty ceiling
// (receiver_phone is empty on the sender-wide row). Incremented with an
// ON DUPLICATE KEY upsert inside the transfer transaction, so two concurrent
// requests cannot both slip under a ceiling.
type TransferCounter struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderId      int       `gorm:"column:sender_id;not null;uniqueIndex:idx_counter_scope" json:"sender_id"`
	ReceiverPhone string    `gorm:"column:receiver_phone;size:20;not null;default:'';uniqueIndex:idx_counter_scope" json:"receiver_phone"`
	Day           string    `gorm:"column:day;size:10;not null;uniqueIndex:idx_counter_scope" json:"day"`
	Count         int       `gorm:"column:count;not null;default:0" json:"count"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TransferCounter) TableName() string {
	return "transfer_counters"
}
