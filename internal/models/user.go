package models

import (
	"time"
)

// Role values
const (
	RoleCustomer = "CUSTOMER"
	RoleWorker   = "WORKER"
	RoleOwner    = "OWNER"
)

// User status values
const (
	UserActive  = "ACTIVE"
	UserBlocked = "BLOCKED"
)

// User is the identity read model. Registration/OTP lives in the identity
// service; this table only holds what transfers need to validate against.
type User struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Phone     string    `gorm:"column:phone;size:20;not null;uniqueIndex" json:"phone"`
	Role      string    `gorm:"column:role;size:20;not null;default:CUSTOMER" json:"role"`
	Status    string    `gorm:"column:status;size:20;not null;default:ACTIVE" json:"status"`
	Verified  bool      `gorm:"column:verified;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
