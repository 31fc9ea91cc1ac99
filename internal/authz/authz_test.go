package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/teamspace/internal/authz"
	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/tests/testutil"
)

func TestMembershipAndOwnership(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := authz.New(s)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)
	_, err = s.AddMember(ctx, ws.ID, "bob")
	require.NoError(t, err)

	member, err := a.IsMember(ctx, "alice", ws.ID)
	require.NoError(t, err)
	require.True(t, member)

	member, err = a.IsMember(ctx, "bob", ws.ID)
	require.NoError(t, err)
	require.True(t, member)

	member, err = a.IsMember(ctx, "mallory", ws.ID)
	require.NoError(t, err)
	require.False(t, member)

	owner, err := a.IsOwner(ctx, "alice", ws.ID)
	require.NoError(t, err)
	require.True(t, owner)

	// Membership never implies ownership.
	owner, err = a.IsOwner(ctx, "bob", ws.ID)
	require.NoError(t, err)
	require.False(t, owner)
}

func TestIsOwnerMissingWorkspace(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := authz.New(s)

	_, err := a.IsOwner(context.Background(), "alice", "no-such-id")
	require.ErrorIs(t, err, model.ErrNotFound)
}
