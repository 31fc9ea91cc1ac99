package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/teamspace/internal/model"
)

// WorkspaceDetails is the extended workspace view returned to its
// creator, including the full member set.
type WorkspaceDetails struct {
	Workspace model.Workspace
	Members   []model.Member
}

// CreateWorkspace creates a workspace owned by the actor. The actor
// becomes the first member in the same transaction, so the creator is
// a member from the instant the workspace is visible.
func (r *Repository) CreateWorkspace(ctx context.Context, actor, name string) (*model.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("workspace name is required: %w", model.ErrBadRequest)
	}
	return r.store.CreateWorkspace(ctx, model.Workspace{
		Name:      name,
		CreatorID: actor,
	})
}

// ListWorkspaces returns the workspaces where the actor is a member.
func (r *Repository) ListWorkspaces(ctx context.Context, actor string) ([]model.Workspace, error) {
	return r.store.ListWorkspacesForMember(ctx, actor)
}

// GetWorkspace retrieves a workspace the actor is a member of. A
// workspace the actor cannot reach reports ErrNotFound, never its
// existence.
func (r *Repository) GetWorkspace(ctx context.Context, actor, workspaceID string) (*model.Workspace, error) {
	return r.store.GetWorkspaceForMember(ctx, actor, workspaceID)
}

// UpdateWorkspace renames a workspace the actor is a member of.
func (r *Repository) UpdateWorkspace(ctx context.Context, actor, workspaceID, name string) (*model.Workspace, error) {
	ws, err := r.store.GetWorkspaceForMember(ctx, actor, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := r.store.RenameWorkspace(ctx, ws.ID, name); err != nil {
		return nil, err
	}
	ws.Name = name
	return ws, nil
}

// DeleteWorkspace removes a workspace the actor is a member of,
// cascading to its tasks, comments, and files.
func (r *Repository) DeleteWorkspace(ctx context.Context, actor, workspaceID string) error {
	ws, err := r.store.GetWorkspaceForMember(ctx, actor, workspaceID)
	if err != nil {
		return err
	}
	return r.store.DeleteWorkspace(ctx, ws.ID)
}

// WorkspaceDetailsFor returns the extended workspace view. Only the
// creator may see it; other members get ErrForbidden.
func (r *Repository) WorkspaceDetailsFor(ctx context.Context, actor, workspaceID string) (*WorkspaceDetails, error) {
	owner, err := r.authz.IsOwner(ctx, actor, workspaceID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, fmt.Errorf("workspace details are visible to the creator only: %w", model.ErrForbidden)
	}

	ws, err := r.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	members, err := r.store.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &WorkspaceDetails{Workspace: *ws, Members: members}, nil
}

// ListMembers returns the member set of a workspace the actor belongs to.
func (r *Repository) ListMembers(ctx context.Context, actor, workspaceID string) ([]model.Member, error) {
	ws, err := r.store.GetWorkspaceForMember(ctx, actor, workspaceID)
	if err != nil {
		return nil, err
	}
	return r.store.ListMembers(ctx, ws.ID)
}

// AddMember resolves username in the identity store and adds the user
// to the workspace. The actor only needs to be able to reach the
// workspace; any member may add anyone. Adding an existing member
// reports ErrConflict.
func (r *Repository) AddMember(ctx context.Context, actor, workspaceID, username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required: %w", model.ErrBadRequest)
	}

	ws, err := r.store.GetWorkspaceForMember(ctx, actor, workspaceID)
	if err != nil {
		return err
	}

	user, err := r.directory.LookupUsername(ctx, username)
	if err != nil {
		return err
	}

	added, err := r.store.AddMember(ctx, ws.ID, user.ID)
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("user %q is already a member: %w", username, model.ErrConflict)
	}
	return nil
}

// ListNotifications returns the actor's notifications, newest first.
func (r *Repository) ListNotifications(ctx context.Context, actor string) ([]model.Notification, error) {
	return r.store.ListNotificationsForUser(ctx, actor)
}
