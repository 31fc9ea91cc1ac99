package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/internal/store"
	"github.com/nhle/teamspace/tests/testutil"
)

func newTask(t *testing.T, s *store.SQLiteStore, workspaceID string) *model.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), model.Task{
		WorkspaceID: workspaceID,
		Title:       "Ship it",
	})
	require.NoError(t, err)
	return task
}

func TestCreateCommentWithFilesLinksEveryFile(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	ws := newWorkspace(t, s, "alice")
	task := newTask(t, s, ws.ID)

	created, err := s.CreateCommentWithFiles(ctx, model.Comment{
		TaskID:   task.ID,
		AuthorID: "alice",
		Text:     "see attachments",
	}, []string{"uploads/a.png", "uploads/b.pdf"})
	require.NoError(t, err)
	require.Len(t, created.Files, 2)

	got, err := s.GetComment(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 2)
	for _, f := range got.Files {
		require.Equal(t, task.ID, f.TaskID)
		require.NotNil(t, f.CommentID)
		require.Equal(t, created.ID, *f.CommentID)
	}

	files, err := s.ListFilesForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestCreateCommentWithFilesRollsBackOnFileFailure(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	ws := newWorkspace(t, s, "alice")
	task := newTask(t, s, ws.ID)

	// The empty file_ref violates a schema constraint, so the whole
	// comment must roll back, first file included.
	_, err := s.CreateCommentWithFiles(ctx, model.Comment{
		TaskID:   task.ID,
		AuthorID: "alice",
		Text:     "half broken",
	}, []string{"uploads/ok.png", ""})
	require.Error(t, err)

	comments, err := s.ListCommentsByWorkspace(ctx, ws.ID, nil)
	require.NoError(t, err)
	require.Empty(t, comments, "no comment may survive a partial file failure")

	files, err := s.ListFilesForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestCreateCommentRejectsEmptyText(t *testing.T) {
	s := testutil.NewTestStore(t)
	ws := newWorkspace(t, s, "alice")
	task := newTask(t, s, ws.ID)

	_, err := s.CreateCommentWithFiles(context.Background(), model.Comment{
		TaskID:   task.ID,
		AuthorID: "alice",
		Text:     "  ",
	}, nil)
	require.ErrorIs(t, err, model.ErrBadRequest)
}

func TestListCommentsByWorkspaceWithTaskFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	ws := newWorkspace(t, s, "alice")
	task1 := newTask(t, s, ws.ID)
	task2 := newTask(t, s, ws.ID)

	_, err := s.CreateCommentWithFiles(ctx, model.Comment{TaskID: task1.ID, AuthorID: "alice", Text: "one"}, nil)
	require.NoError(t, err)
	_, err = s.CreateCommentWithFiles(ctx, model.Comment{TaskID: task2.ID, AuthorID: "bob", Text: "two"}, nil)
	require.NoError(t, err)

	all, err := s.ListCommentsByWorkspace(ctx, ws.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	only, err := s.ListCommentsByWorkspace(ctx, ws.ID, &task1.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, "one", only[0].Text)
}

func TestDeleteCommentKeepsFilesOnTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	ws := newWorkspace(t, s, "alice")
	task := newTask(t, s, ws.ID)

	created, err := s.CreateCommentWithFiles(ctx, model.Comment{
		TaskID:   task.ID,
		AuthorID: "alice",
		Text:     "with file",
	}, []string{"uploads/keep.png"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteComment(ctx, created.ID))

	files, err := s.ListFilesForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Nil(t, files[0].CommentID)
}

func TestUpdateCommentText(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	ws := newWorkspace(t, s, "alice")
	task := newTask(t, s, ws.ID)

	created, err := s.CreateCommentWithFiles(ctx, model.Comment{
		TaskID:   task.ID,
		AuthorID: "alice",
		Text:     "draft",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.UpdateCommentText(ctx, created.ID, "final"))
	got, err := s.GetComment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Text)

	require.ErrorIs(t, s.UpdateCommentText(ctx, "nope", "x"), model.ErrNotFound)
}
