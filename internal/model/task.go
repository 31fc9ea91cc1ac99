package model

import "time"

// Task status constants.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// ValidPriority reports whether p is a recognized task priority.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a unit of work inside a workspace. Visibility and mutation
// rights derive entirely from membership of the owning workspace.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id" db:"id"`

	// WorkspaceID is the owning workspace.
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// Deadline is the optional due timestamp, stored in UTC.
	Deadline *time.Time `json:"deadline,omitempty" db:"deadline"`

	// Priority is one of the Priority* constants. Defaults to medium.
	Priority string `json:"priority" db:"priority"`

	// Status is one of the Status* constants. Defaults to todo.
	Status string `json:"status" db:"status"`

	// CreatorID is the user who created the task, sourced from the
	// authenticated principal rather than client input. May be nil for
	// tasks whose author account no longer exists.
	CreatorID *string `json:"creator_id,omitempty" db:"creator_id"`

	// Assignees is the set of users the task is assigned to.
	Assignees []string `json:"assignees,omitempty" db:"-"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
