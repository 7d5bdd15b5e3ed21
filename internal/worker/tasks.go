package worker

// Task Types
const (
	TypeGoalSettlement = "goal-settlement"
)
