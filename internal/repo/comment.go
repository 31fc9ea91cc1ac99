package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/teamspace/internal/model"
)

// CreateComment attaches a comment to a task, authored by the actor.
// fileRefs are opaque blob references already uploaded to the external
// store; each becomes a TaskFile row linked to both the task and the
// comment, committed together with the comment. If persisting any file
// fails the whole operation fails — the caller never receives a
// comment that silently lost attachments.
func (r *Repository) CreateComment(ctx context.Context, actor, taskID, text string, fileRefs []string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is required: %w", model.ErrBadRequest)
	}

	t, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return nil, err
	}

	return r.store.CreateCommentWithFiles(ctx, model.Comment{
		TaskID:   t.ID,
		AuthorID: actor,
		Text:     text,
	}, fileRefs)
}

// ListComments returns the comments in a workspace, optionally
// narrowed to one task. Unlike member-scoped lookups elsewhere, this
// surface reports a missing workspace and a membership failure
// separately: ErrNotFound when the workspace does not exist,
// ErrForbidden when the actor is not a member.
func (r *Repository) ListComments(ctx context.Context, actor, workspaceID string, taskID *string) ([]model.Comment, error) {
	ws, err := r.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, ws.ID); err != nil {
		return nil, err
	}
	return r.store.ListCommentsByWorkspace(ctx, ws.ID, taskID)
}

// UpdateComment replaces a comment's text. Any member of the owning
// workspace may edit, matching the membership-only rule used
// everywhere else.
func (r *Repository) UpdateComment(ctx context.Context, actor, commentID, text string) (*model.Comment, error) {
	c, err := r.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	t, err := r.store.GetTask(ctx, c.TaskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return nil, err
	}

	if err := r.store.UpdateCommentText(ctx, c.ID, text); err != nil {
		return nil, err
	}
	c.Text = text
	return c, nil
}

// DeleteComment removes a comment. Any member of the owning workspace
// may delete.
func (r *Repository) DeleteComment(ctx context.Context, actor, commentID string) error {
	c, err := r.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	t, err := r.store.GetTask(ctx, c.TaskID)
	if err != nil {
		return err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return err
	}
	return r.store.DeleteComment(ctx, c.ID)
}

// ListFiles returns the file records on a task the actor can access.
func (r *Repository) ListFiles(ctx context.Context, actor, taskID string) ([]model.TaskFile, error) {
	t, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return nil, err
	}
	return r.store.ListFilesForTask(ctx, t.ID)
}

// GetFile retrieves a single file record the actor can access.
func (r *Repository) GetFile(ctx context.Context, actor, fileID string) (*model.TaskFile, error) {
	f, err := r.store.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	t, err := r.store.GetTask(ctx, f.TaskID)
	if err != nil {
		return nil, err
	}
	if err := r.requireMember(ctx, actor, t.WorkspaceID); err != nil {
		return nil, err
	}
	return f, nil
}
