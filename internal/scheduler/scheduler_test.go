package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/teamspace/internal/logging"
	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/internal/notify"
	"github.com/nhle/teamspace/internal/scheduler"
	"github.com/nhle/teamspace/internal/store"
	"github.com/nhle/teamspace/tests/testutil"
)

func strptr(s string) *string { return &s }

func TestTickNotifiesCreatorAndAssigneesOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	deadline := time.Now().UTC().Add(2 * time.Hour)
	task, err := s.CreateTask(ctx, model.Task{
		WorkspaceID: ws.ID,
		Title:       "Ship it",
		Deadline:    &deadline,
		CreatorID:   strptr("alice"),
		Assignees:   []string{"alice", "bob"},
	})
	require.NoError(t, err)

	scanner := scheduler.New(s, notify.New(s), time.UTC, time.Minute, logging.Discard())

	// alice is creator and assignee, so she gets exactly one.
	require.Equal(t, 2, scanner.Tick(ctx))

	forAlice, err := s.ListNotificationsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, forAlice, 1)

	forBob, err := s.ListNotificationsForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, forBob, 1)

	wantMessage := "Task 'Ship it' is due soon on " +
		deadline.Format("Jan 02, 2006 at 03:04 PM") + " (Workspace: Platform)"
	require.Equal(t, wantMessage, forBob[0].Message)
	require.Equal(t, task.ID, forBob[0].TaskID)

	// A second tick inside the same window creates nothing new.
	require.Equal(t, 0, scanner.Tick(ctx))
}

func TestTickSkipsDoneAndDistantTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	soon := time.Now().UTC().Add(2 * time.Hour)
	far := time.Now().UTC().Add(48 * time.Hour)

	_, err = s.CreateTask(ctx, model.Task{
		WorkspaceID: ws.ID, Title: "Done already", Deadline: &soon,
		Status: model.StatusDone, CreatorID: strptr("alice"),
	})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.Task{
		WorkspaceID: ws.ID, Title: "Next week", Deadline: &far,
		CreatorID: strptr("alice"),
	})
	require.NoError(t, err)

	scanner := scheduler.New(s, notify.New(s), time.UTC, time.Minute, logging.Discard())
	require.Equal(t, 0, scanner.Tick(ctx))
}

func TestTickWithoutCreatorNotifiesAllAssignees(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	deadline := time.Now().UTC().Add(2 * time.Hour)
	_, err = s.CreateTask(ctx, model.Task{
		WorkspaceID: ws.ID,
		Title:       "Orphaned",
		Deadline:    &deadline,
		Assignees:   []string{"bob", "carol"},
	})
	require.NoError(t, err)

	scanner := scheduler.New(s, notify.New(s), time.UTC, time.Minute, logging.Discard())
	require.Equal(t, 2, scanner.Tick(ctx))
}

func TestRenderMessageUsesConfiguredTimezone(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Platform", CreatorID: "alice"})
	require.NoError(t, err)

	deadline := time.Now().UTC().Add(2 * time.Hour)
	_, err = s.CreateTask(ctx, model.Task{
		WorkspaceID: ws.ID,
		Title:       "Localized",
		Deadline:    &deadline,
		CreatorID:   strptr("alice"),
	})
	require.NoError(t, err)

	loc := time.FixedZone("ICT", 7*60*60)
	scanner := scheduler.New(s, notify.New(s), loc, time.Minute, logging.Discard())
	require.Equal(t, 1, scanner.Tick(ctx))

	notifications, err := s.ListNotificationsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message,
		deadline.In(loc).Format("Jan 02, 2006 at 03:04 PM"))
}

// fakeSource serves a fixed due-task set.
type fakeSource struct {
	due []store.DueTask
	err error
}

func (f *fakeSource) ListDueTasks(ctx context.Context, from, to time.Time) ([]store.DueTask, error) {
	return f.due, f.err
}

// flakyNotifier fails for one recipient and records the rest.
type flakyNotifier struct {
	failFor   string
	delivered []string
}

func (f *flakyNotifier) NotifyIfNeeded(ctx context.Context, userID, taskID, message string) (bool, error) {
	if userID == f.failFor {
		return false, fmt.Errorf("notification store unavailable")
	}
	f.delivered = append(f.delivered, userID)
	return true, nil
}

func dueTask(id, title string, creator *string, assignees ...string) store.DueTask {
	deadline := time.Now().UTC().Add(time.Hour)
	return store.DueTask{
		Task: model.Task{
			ID:        id,
			Title:     title,
			Deadline:  &deadline,
			CreatorID: creator,
			Assignees: assignees,
		},
		WorkspaceName: "Platform",
		WorkspaceOK:   true,
	}
}

func TestTickIsolatesRecipientFailures(t *testing.T) {
	src := &fakeSource{due: []store.DueTask{
		dueTask("t1", "First", strptr("alice"), "bob"),
		dueTask("t2", "Second", strptr("bob"), "carol"),
	}}
	notifier := &flakyNotifier{failFor: "bob"}

	scanner := scheduler.New(src, notifier, time.UTC, time.Minute, logging.Discard())

	created := scanner.Tick(context.Background())
	require.Equal(t, 2, created)
	require.ElementsMatch(t, []string{"alice", "carol"}, notifier.delivered)
}

func TestTickSkipsTasksWithoutWorkspace(t *testing.T) {
	orphan := dueTask("t1", "Orphan", strptr("alice"))
	orphan.WorkspaceOK = false
	orphan.WorkspaceName = ""

	src := &fakeSource{due: []store.DueTask{orphan}}
	notifier := &flakyNotifier{}

	scanner := scheduler.New(src, notifier, time.UTC, time.Minute, logging.Discard())
	require.Equal(t, 0, scanner.Tick(context.Background()))
	require.Empty(t, notifier.delivered)
}

func TestTickSurvivesSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("database locked")}
	notifier := &flakyNotifier{}

	scanner := scheduler.New(src, notifier, time.UTC, time.Minute, logging.Discard())
	require.Equal(t, 0, scanner.Tick(context.Background()))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := &fakeSource{}
	notifier := &flakyNotifier{}

	scanner := scheduler.New(src, notifier, time.UTC, 10*time.Millisecond, logging.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		scanner.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
