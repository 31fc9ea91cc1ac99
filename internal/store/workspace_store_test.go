package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/tests/testutil"
)

func TestCreateWorkspaceAddsCreatorMembership(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, ws.ID)

	member, err := s.IsMember(ctx, "alice", ws.ID)
	require.NoError(t, err)
	require.True(t, member, "creator must be a member immediately after creation")

	members, err := s.ListMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "alice", members[0].UserID)
}

func TestCreateWorkspaceRejectsEmptyName(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.CreateWorkspace(context.Background(), model.Workspace{Name: "  ", CreatorID: "alice"})
	require.ErrorIs(t, err, model.ErrBadRequest)
}

func TestGetWorkspaceForMemberHidesForeignWorkspaces(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	got, err := s.GetWorkspaceForMember(ctx, "alice", ws.ID)
	require.NoError(t, err)
	require.Equal(t, ws.ID, got.ID)

	// A non-member sees the same error as for a missing workspace.
	_, err = s.GetWorkspaceForMember(ctx, "mallory", ws.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.GetWorkspaceForMember(ctx, "alice", "no-such-id")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestListWorkspacesForMemberScoping(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws1, err := s.CreateWorkspace(ctx, model.Workspace{Name: "One", CreatorID: "alice"})
	require.NoError(t, err)
	_, err = s.CreateWorkspace(ctx, model.Workspace{Name: "Two", CreatorID: "bob"})
	require.NoError(t, err)

	added, err := s.AddMember(ctx, ws1.ID, "bob")
	require.NoError(t, err)
	require.True(t, added)

	forAlice, err := s.ListWorkspacesForMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	require.Equal(t, ws1.ID, forAlice[0].ID)

	forBob, err := s.ListWorkspacesForMember(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, forBob, 2)
}

func TestAddMemberIsIdempotentAtStoreLevel(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	added, err := s.AddMember(ctx, ws.ID, "bob")
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.AddMember(ctx, ws.ID, "bob")
	require.NoError(t, err)
	require.False(t, added, "second add of the same member must report false")

	members, err := s.ListMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
}

func TestRenameAndDeleteWorkspace(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Old", CreatorID: "alice"})
	require.NoError(t, err)

	require.NoError(t, s.RenameWorkspace(ctx, ws.ID, "New"))
	got, err := s.GetWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Equal(t, "New", got.Name)

	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID))
	_, err = s.GetWorkspace(ctx, ws.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	err = s.DeleteWorkspace(ctx, ws.ID)
	require.True(t, errors.Is(err, model.ErrNotFound))
}
