package models

import (
	"time"
)

// Goal types
const (
	GoalWorkerTarget = "WORKER_TARGET"
)

// Goal statuses
const (
	GoalActive   = "ACTIVE"
	GoalArchived = "ARCHIVED"
)

// Goal is a recurring daily commission target scoped to one worker profile.
// At most one ACTIVE WORKER_TARGET goal exists per profile; setting a new
// goal archives the prior one. Profiles keep their goal history when they
// depart (goals are archived, never cascade-deleted).
type Goal struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerId         int        `gorm:"column:owner_id;not null;index" json:"owner_id"`
	WorkerProfileId int        `gorm:"column:worker_profile_id;not null;index" json:"worker_profile_id"`
	GoalType        string     `gorm:"column:goal_type;size:30;not null;default:WORKER_TARGET" json:"goal_type"`
	TargetAmount    float64    `gorm:"column:target_amount;type:decimal(20,2);not null" json:"target_amount"`
	IsRecurring     bool       `gorm:"column:is_recurring;default:true" json:"is_recurring"`
	Status          string     `gorm:"column:status;size:20;not null;default:ACTIVE" json:"status"`
	Deadline        *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}
