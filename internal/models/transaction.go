package models

import (
	"time"
)

// Transaction types
const (
	TrxDeposit    = "DEPOSIT"
	TrxWithdrawal = "WITHDRAWAL"
)

// Transaction statuses
const (
	TrxCompleted = "COMPLETED"
	TrxFailed    = "FAILED"
)

// Commission statuses. PENDING commission is settled nightly to PAID or
// FORFEITED; both are terminal.
const (
	CommissionPending   = "PENDING"
	CommissionPaid      = "PAID"
	CommissionForfeited = "FORFEITED"
)

// Transaction is the immutable record of one point transfer. Only
// commission_status is ever mutated after creation, and only by the
// settlement engine.
type Transaction struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference        string    `gorm:"column:reference;size:64;not null;index" json:"reference"`
	IdempotencyKey   *string   `gorm:"column:idempotency_key;size:64;uniqueIndex:idx_trx_idem" json:"idempotency_key,omitempty"`
	SenderId         int       `gorm:"column:sender_id;not null;index:idx_trx_sender_day" json:"sender_id"`
	ReceiverPhone    string    `gorm:"column:receiver_phone;size:20;not null;index" json:"receiver_phone"`
	ReceiverId       *int      `gorm:"column:receiver_id" json:"receiver_id,omitempty"`
	KioskId          int       `gorm:"column:kiosk_id;not null;index" json:"kiosk_id"`
	WorkerProfileId  *int      `gorm:"column:worker_profile_id;index:idx_trx_profile_commission" json:"worker_profile_id,omitempty"`
	AmountGross      float64   `gorm:"column:amount_gross;type:decimal(20,2);not null" json:"amount_gross"`
	AmountNet        float64   `gorm:"column:amount_net;type:decimal(20,2);not null" json:"amount_net"`
	Commission       float64   `gorm:"column:commission;type:decimal(20,2);default:0.00" json:"commission"`
	TrxType          string    `gorm:"column:trx_type;size:20;not null" json:"trx_type"`
	Status           string    `gorm:"column:status;size:20;not null" json:"status"`
	CommissionStatus string    `gorm:"column:commission_status;size:20;default:PENDING;index:idx_trx_profile_commission" json:"commission_status"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime;index:idx_trx_sender_day" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
