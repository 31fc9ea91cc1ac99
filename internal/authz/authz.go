// Package authz answers membership and ownership questions for
// workspaces. All task, comment, and file access rights derive
// transitively from membership of the owning workspace; there is no
// per-task ACL. Checks are explicit (user, resource) queries rather
// than traversals hung off the data model types.
package authz

import (
	"context"

	"github.com/nhle/teamspace/internal/store"
)

// Authorizer evaluates workspace access for a principal.
type Authorizer struct {
	store store.Store
}

// New creates an Authorizer backed by the given store.
func New(s store.Store) *Authorizer {
	return &Authorizer{store: s}
}

// IsMember reports whether the user is in the workspace's member set.
// The creator is added to the set at creation time and cannot be
// removed through this core's operations, so creators always pass.
func (a *Authorizer) IsMember(ctx context.Context, userID, workspaceID string) (bool, error) {
	return a.store.IsMember(ctx, userID, workspaceID)
}

// IsOwner reports whether the user created the workspace. Used only to
// gate the creator-only workspace details view.
func (a *Authorizer) IsOwner(ctx context.Context, userID, workspaceID string) (bool, error) {
	ws, err := a.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return false, err
	}
	return ws.CreatorID == userID, nil
}
