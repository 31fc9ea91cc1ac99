package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/teamspace/internal/model"
)

// dateLayout is the wire format for calendar-day queries.
const dateLayout = "2006-01-02"

// CreateTask creates a task in the workspace. The actor must be a
// member and is recorded as the task's creator regardless of any
// client-supplied value.
func (r *Repository) CreateTask(ctx context.Context, actor, workspaceID string, fields TaskFields) (*model.Task, error) {
	member, err := r.authz.IsMember(ctx, actor, workspaceID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("user %s is not a member of workspace %s: %w", actor, workspaceID, model.ErrForbidden)
	}

	t, err := taskFromFields(workspaceID, fields)
	if err != nil {
		return nil, err
	}
	t.CreatorID = &actor

	return r.store.CreateTask(ctx, *t)
}

// GetTask retrieves a task. Non-members of the owning workspace get
// ErrForbidden.
func (r *Repository) GetTask(ctx context.Context, actor, taskID string) (*model.Task, error) {
	t, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns tasks across the actor's workspaces. workspaceID
// optionally narrows the result; a filter naming a workspace the actor
// does not belong to silently matches nothing.
func (r *Repository) ListTasks(ctx context.Context, actor string, workspaceID *string) ([]model.Task, error) {
	return r.store.ListTasksForMember(ctx, actor, workspaceID)
}

// ListTasksByDate returns the workspace's tasks whose deadline falls
// within the named calendar day in the server's configured timezone.
// date must be formatted YYYY-MM-DD. The query is member-scoped, so a
// foreign workspace yields an empty result rather than ErrForbidden.
func (r *Repository) ListTasksByDate(ctx context.Context, actor, workspaceID, date string) ([]model.Task, error) {
	day, err := time.ParseInLocation(dateLayout, date, r.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", date, model.ErrBadRequest)
	}

	// The day's boundaries are local; deadlines are stored in UTC.
	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)

	return r.store.ListTasksByDeadline(ctx, actor, workspaceID, from.UTC(), to.UTC())
}

// UpdateTask replaces a task's writable fields. The actor must be a
// member of the owning workspace. updated_at is refreshed.
func (r *Repository) UpdateTask(ctx context.Context, actor, taskID string, fields TaskFields) (*model.Task, error) {
	existing, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, existing.WorkspaceID); err != nil {
		return nil, err
	}

	t, err := taskFromFields(existing.WorkspaceID, fields)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.CreatorID = existing.CreatorID

	if err := r.store.UpdateTask(ctx, *t); err != nil {
		return nil, err
	}
	return r.store.GetTask(ctx, taskID)
}

// DeleteTask removes a task. The actor must be a member of the owning
// workspace.
func (r *Repository) DeleteTask(ctx context.Context, actor, taskID string) error {
	t, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return err
	}
	return r.store.DeleteTask(ctx, t.ID)
}

// requireMember returns ErrForbidden unless actor belongs to the
// workspace.
func (r *Repository) requireMember(ctx context.Context, actor, workspaceID string) error {
	member, err := r.authz.IsMember(ctx, actor, workspaceID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("user %s is not a member of workspace %s: %w", actor, workspaceID, model.ErrForbidden)
	}
	return nil
}

// taskFromFields validates the writable field set and builds a task,
// applying the priority and status defaults.
func taskFromFields(workspaceID string, fields TaskFields) (*model.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return nil, fmt.Errorf("task title is required: %w", model.ErrBadRequest)
	}

	priority := fields.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q: %w", fields.Priority, model.ErrBadRequest)
	}

	status := fields.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", fields.Status, model.ErrBadRequest)
	}

	return &model.Task{
		WorkspaceID: workspaceID,
		Title:       fields.Title,
		Description: fields.Description,
		Deadline:    fields.Deadline,
		Priority:    priority,
		Status:      status,
		Assignees:   fields.Assignees,
	}, nil
}
