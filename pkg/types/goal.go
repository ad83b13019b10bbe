package types

import "time"

// GoalStatus tracks a goal's progress.
type GoalStatus string

// Goal statuses.
const (
	GoalPending    GoalStatus = "Pending"
	GoalInProgress GoalStatus = "InProgress"
	GoalCompleted  GoalStatus = "Completed"
	GoalDeferred   GoalStatus = "Deferred"
	GoalCancelled  GoalStatus = "Cancelled"
)

// PriorityLevel ranks goals.
type PriorityLevel string

// Priority levels.
const (
	PriorityLow      PriorityLevel = "Low"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityHigh     PriorityLevel = "High"
	PriorityCritical PriorityLevel = "Critical"
)

// CareerGoal is stored under EntityGoal.
type CareerGoal struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	TargetDate    string        `json:"targetDate"`
	Status        GoalStatus    `json:"status"`
	Priority      PriorityLevel `json:"priority"`
	RelatedSkills []string      `json:"relatedSkills"`
	ActionItems   []ActionItem  `json:"actionItems"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	Signature     string        `json:"signature,omitempty"`
	Nonce         string        `json:"nonce,omitempty"`
}

// RecordID implements Record.
func (g CareerGoal) RecordID() string { return g.ID }

// ActionItem is a step toward a goal, embedded in CareerGoal.
type ActionItem struct {
	ID            string `json:"id"`
	GoalID        string `json:"goalId"`
	Description   string `json:"description"`
	DueDate       string `json:"dueDate"`
	IsCompleted   bool   `json:"isCompleted"`
	CompletedDate string `json:"completedDate,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
