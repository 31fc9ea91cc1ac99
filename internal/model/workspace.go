package model

import "time"

// Workspace is the tenant boundary containing tasks and members.
type Workspace struct {
	// ID is the unique identifier for this workspace.
	ID string `json:"id" db:"id"`

	// Name is the human-readable workspace name.
	Name string `json:"name" db:"name"`

	// CreatorID is the user who created the workspace. The creator is
	// always present in the member set.
	CreatorID string `json:"creator_id" db:"creator_id"`

	// CreatedAt is when the workspace was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Member is a user granted access to a workspace's tasks, comments,
// and files. User identity itself lives in the external identity store;
// only the ID is recorded here.
type Member struct {
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	AddedAt     time.Time `json:"added_at" db:"added_at"`
}
