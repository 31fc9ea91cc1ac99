package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/teamspace/internal/model"
)

// CreateCommentWithFiles inserts a comment and one task_files row per
// uploaded file reference in a single transaction. If any file row
// fails to persist the whole comment is rolled back, so a stored
// comment can never reference fewer files than were uploaded.
func (s *SQLiteStore) CreateCommentWithFiles(
	ctx context.Context,
	c model.Comment,
	fileRefs []string,
) (*model.Comment, error) {
	if strings.TrimSpace(c.Text) == "" {
		return nil, fmt.Errorf("comment text must not be empty: %w", model.ErrBadRequest)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, author_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.AuthorID, c.Text, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	for _, ref := range fileRefs {
		f := model.TaskFile{
			ID:         uuid.New().String(),
			TaskID:     c.TaskID,
			CommentID:  &c.ID,
			FileRef:    ref,
			UploadedAt: c.CreatedAt,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_files (id, task_id, comment_id, file_ref, uploaded_at)
			VALUES (?, ?, ?, ?, ?)`,
			f.ID, f.TaskID, f.CommentID, f.FileRef, f.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("persisting file %q for comment: %w", ref, err)
		}
		c.Files = append(c.Files, f)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing comment: %w", err)
	}
	return &c, nil
}

// GetComment retrieves a single comment by ID, including its files.
func (s *SQLiteStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, task_id, author_id, text, created_at FROM comments WHERE id = ?", id,
	).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment %s: %w", id, err)
	}

	files, err := s.listFilesForComment(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Files = files
	return &c, nil
}

// ListCommentsByWorkspace retrieves comments on all tasks in a
// workspace, optionally narrowed to a single task, oldest first.
func (s *SQLiteStore) ListCommentsByWorkspace(
	ctx context.Context,
	workspaceID string,
	taskID *string,
) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.task_id, c.author_id, c.text, c.created_at
		FROM comments c
		JOIN tasks t ON t.id = c.task_id
		WHERE t.workspace_id = ?`
	args := []interface{}{workspaceID}

	if taskID != nil {
		query += " AND c.task_id = ?"
		args = append(args, *taskID)
	}
	query += " ORDER BY c.created_at"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comments for workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateCommentText replaces a comment's text.
func (s *SQLiteStore) UpdateCommentText(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text must not be empty: %w", model.ErrBadRequest)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE comments SET text = ? WHERE id = ?", text, id)
	if err != nil {
		return fmt.Errorf("updating comment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("comment %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteComment removes a comment by ID. Attached files stay on the
// task with their comment reference cleared.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("comment %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetFile retrieves a single file record by ID.
func (s *SQLiteStore) GetFile(ctx context.Context, id string) (*model.TaskFile, error) {
	var f model.TaskFile
	err := s.db.QueryRowxContext(ctx, `
		SELECT id, task_id, comment_id, file_ref, uploaded_at
		FROM task_files WHERE id = ?`, id,
	).Scan(&f.ID, &f.TaskID, &f.CommentID, &f.FileRef, &f.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting file %s: %w", id, err)
	}
	return &f, nil
}

// ListFilesForTask retrieves all file records on a task, oldest first.
func (s *SQLiteStore) ListFilesForTask(
	ctx context.Context,
	taskID string,
) ([]model.TaskFile, error) {
	return s.queryFiles(ctx, `
		SELECT id, task_id, comment_id, file_ref, uploaded_at
		FROM task_files WHERE task_id = ?
		ORDER BY uploaded_at`, taskID)
}

// listFilesForComment retrieves the files attached to one comment.
func (s *SQLiteStore) listFilesForComment(
	ctx context.Context,
	commentID string,
) ([]model.TaskFile, error) {
	return s.queryFiles(ctx, `
		SELECT id, task_id, comment_id, file_ref, uploaded_at
		FROM task_files WHERE comment_id = ?
		ORDER BY uploaded_at`, commentID)
}

func (s *SQLiteStore) queryFiles(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]model.TaskFile, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []model.TaskFile
	for rows.Next() {
		var f model.TaskFile
		if err := rows.Scan(&f.ID, &f.TaskID, &f.CommentID, &f.FileRef, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
