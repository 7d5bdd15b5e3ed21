package models

import (
	"time"
)

// SettlementRun statuses
const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// SettlementRun is the run-once guard and audit row for one settled day.
// The unique day index makes a second run for the same day fail fast.
type SettlementRun struct {
	ID             int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Day            string     `gorm:"column:day;size:10;not null;uniqueIndex" json:"day"`
	Reference      string     `gorm:"column:reference;size:64;not null" json:"reference"`
	Status         string     `gorm:"column:status;size:20;not null;default:RUNNING" json:"status"`
	GoalsProcessed int        `gorm:"column:goals_processed;default:0" json:"goals_processed"`
	GoalsReleased  int        `gorm:"column:goals_released;default:0" json:"goals_released"`
	GoalsForfeited int        `gorm:"column:goals_forfeited;default:0" json:"goals_forfeited"`
	GoalsFailed    int        `gorm:"column:goals_failed;default:0" json:"goals_failed"`
	AmountReleased float64    `gorm:"column:amount_released;type:decimal(20,2);default:0.00" json:"amount_released"`
	FinishedAt     *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SettlementRun) TableName() string {
	return "settlement_runs"
}
