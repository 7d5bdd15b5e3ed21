package models

import (
	"time"
)

// Wallet holds the point balance for a registered identity. Balance never
// goes negative: every debit runs a sufficiency check under row lock inside
// the same database transaction.
type Wallet struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId    int       `gorm:"column:user_id;not null;uniqueIndex:idx_wallet_user" json:"user_id"`
	Balance   float64   `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// ShadowWallet accrues points sent to a phone number that has not registered
// yet. Claimed (migrated into a real Wallet) and deleted at registration.
type ShadowWallet struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"column:phone;size:20;not null;uniqueIndex" json:"phone"`
	Balance   float64   `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ShadowWallet) TableName() string {
	return "shadow_wallets"
}
