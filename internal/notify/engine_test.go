package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/internal/notify"
	"github.com/nhle/teamspace/tests/testutil"
)

func TestNotifyIfNeededOncePerUserAndTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	e := notify.New(s)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)
	task, err := s.CreateTask(ctx, model.Task{WorkspaceID: ws.ID, Title: "Ship it"})
	require.NoError(t, err)

	created, err := e.NotifyIfNeeded(ctx, "bob", task.ID, "due soon")
	require.NoError(t, err)
	require.True(t, created)

	// A different message for the same pair is still a duplicate.
	created, err = e.NotifyIfNeeded(ctx, "bob", task.ID, "still due soon")
	require.NoError(t, err)
	require.False(t, created)

	// A different user for the same task is a fresh pair.
	created, err = e.NotifyIfNeeded(ctx, "carol", task.ID, "due soon")
	require.NoError(t, err)
	require.True(t, created)

	notifications, err := s.ListNotificationsForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "due soon", notifications[0].Message)
}
