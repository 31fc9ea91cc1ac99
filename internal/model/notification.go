package model

import "time"

// Notification records that a user was told about activity on a task.
// At most one notification exists per (user, task) pair; the store
// enforces this with a unique index, so repeated scheduler runs cannot
// produce duplicates.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id" db:"user_id"`

	// TaskID is the task the notification is about.
	TaskID string `json:"task_id" db:"task_id"`

	// Message is the rendered human-readable text.
	Message string `json:"message" db:"message"`

	// CreatedAt is when the notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
