package store

import (
	"context"
	"time"

	"github.com/nhle/teamspace/internal/model"
)

// DueTask pairs a task nearing its deadline with the owning workspace
// name needed to render the notification message. Found is false when
// the workspace row is missing; the scheduler logs and skips those.
type DueTask struct {
	Task          model.Task
	WorkspaceName string
	WorkspaceOK   bool
}

// Store defines the persistence interface for workspaces, tasks,
// comments, files, and notifications.
//
// Lookups return model.ErrNotFound (wrapped) when no row matches.
// Member-scoped lookups treat "exists but actor is not a member" the
// same as "does not exist" so existence is never leaked.
type Store interface {
	// === Workspaces ===

	CreateWorkspace(ctx context.Context, ws model.Workspace) (*model.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*model.Workspace, error)
	GetWorkspaceForMember(ctx context.Context, userID, id string) (*model.Workspace, error)
	ListWorkspacesForMember(ctx context.Context, userID string) ([]model.Workspace, error)
	RenameWorkspace(ctx context.Context, id, name string) error
	DeleteWorkspace(ctx context.Context, id string) error

	// === Membership ===

	IsMember(ctx context.Context, userID, workspaceID string) (bool, error)
	// AddMember reports false when the user is already a member.
	AddMember(ctx context.Context, workspaceID, userID string) (bool, error)
	ListMembers(ctx context.Context, workspaceID string) ([]model.Member, error)

	// === Tasks ===

	CreateTask(ctx context.Context, t model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasksForMember(ctx context.Context, userID string, workspaceID *string) ([]model.Task, error)
	ListTasksByDeadline(ctx context.Context, userID, workspaceID string, from, to time.Time) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListDueTasks(ctx context.Context, from, to time.Time) ([]DueTask, error)

	// === Comments and files ===

	CreateCommentWithFiles(ctx context.Context, c model.Comment, fileRefs []string) (*model.Comment, error)
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ListCommentsByWorkspace(ctx context.Context, workspaceID string, taskID *string) ([]model.Comment, error)
	UpdateCommentText(ctx context.Context, id, text string) error
	DeleteComment(ctx context.Context, id string) error
	GetFile(ctx context.Context, id string) (*model.TaskFile, error)
	ListFilesForTask(ctx context.Context, taskID string) ([]model.TaskFile, error)

	// === Notifications ===

	// CreateNotificationIfAbsent inserts the notification unless one
	// already exists for the same (user, task) pair. The insert and
	// the uniqueness check are a single atomic statement.
	CreateNotificationIfAbsent(ctx context.Context, n model.Notification) (bool, error)
	ListNotificationsForUser(ctx context.Context, userID string) ([]model.Notification, error)

	Close() error
}
