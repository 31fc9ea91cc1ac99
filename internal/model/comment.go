package model

import "time"

// Comment is a note attached to a task. Files uploaded alongside a
// comment are persisted as TaskFile rows in the same transaction.
type Comment struct {
	// ID is the unique identifier for this comment.
	ID string `json:"id" db:"id"`

	// TaskID is the owning task.
	TaskID string `json:"task_id" db:"task_id"`

	// AuthorID is the user who wrote the comment, sourced from the
	// authenticated principal.
	AuthorID string `json:"author_id" db:"author_id"`

	// Text is the comment body.
	Text string `json:"text" db:"text"`

	// CreatedAt is when the comment was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Files holds the attachments created with this comment, populated
	// by queries that join task_files.
	Files []TaskFile `json:"files,omitempty" db:"-"`
}

// TaskFile is an uploaded file attached to a task. The core stores only
// an opaque reference into the external blob store plus a timestamp.
type TaskFile struct {
	ID string `json:"id" db:"id"`

	// TaskID is the owning task.
	TaskID string `json:"task_id" db:"task_id"`

	// CommentID is set when the file arrived as a comment attachment.
	CommentID *string `json:"comment_id,omitempty" db:"comment_id"`

	// FileRef is the opaque reference into the blob store.
	FileRef string `json:"file_ref" db:"file_ref"`

	// UploadedAt is when the file was recorded.
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
