package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/teamspace/internal/model"
)

const taskColumns = "id, workspace_id, title, description, deadline, priority, status, creator_id, created_at, updated_at"

// CreateTask inserts a new task and its assignee set in a single
// transaction. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateTask(
	ctx context.Context,
	t model.Task,
) (*model.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("task title must not be empty: %w", model.ErrBadRequest)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Deadline != nil {
		utc := t.Deadline.UTC()
		t.Deadline = &utc
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.WorkspaceID, t.Title, t.Description, t.Deadline,
		t.Priority, t.Status, t.CreatorID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	for _, userID := range t.Assignees {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_assignees (task_id, user_id)
			VALUES (?, ?)`, t.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("assigning task to %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task: %w", err)
	}
	return &t, nil
}

// GetTask retrieves a single task by ID, including its assignees.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	if t.Assignees, err = s.getAssignees(ctx, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasksForMember retrieves tasks across all workspaces where userID
// is a member, optionally narrowed to a single workspace. Filtering by
// a workspace the user does not belong to matches nothing.
func (s *SQLiteStore) ListTasksForMember(
	ctx context.Context,
	userID string,
	workspaceID *string,
) ([]model.Task, error) {
	query := `
		SELECT t.id, t.workspace_id, t.title, t.description, t.deadline,
		       t.priority, t.status, t.creator_id, t.created_at, t.updated_at
		FROM tasks t
		JOIN workspace_members m ON m.workspace_id = t.workspace_id
		WHERE m.user_id = ?`
	args := []interface{}{userID}

	if workspaceID != nil {
		query += " AND t.workspace_id = ?"
		args = append(args, *workspaceID)
	}
	query += " ORDER BY t.created_at"

	return s.queryTasks(ctx, query, args...)
}

// ListTasksByDeadline retrieves tasks in a workspace whose deadline
// falls inside [from, to], member-scoped like ListTasksForMember.
func (s *SQLiteStore) ListTasksByDeadline(
	ctx context.Context,
	userID, workspaceID string,
	from, to time.Time,
) ([]model.Task, error) {
	query := `
		SELECT t.id, t.workspace_id, t.title, t.description, t.deadline,
		       t.priority, t.status, t.creator_id, t.created_at, t.updated_at
		FROM tasks t
		JOIN workspace_members m ON m.workspace_id = t.workspace_id
		WHERE m.user_id = ? AND t.workspace_id = ?
		  AND t.deadline IS NOT NULL AND t.deadline >= ? AND t.deadline <= ?
		ORDER BY t.deadline`

	return s.queryTasks(ctx, query, userID, workspaceID, from.UTC(), to.UTC())
}

// UpdateTask persists task fields and replaces the assignee set.
// updated_at is refreshed unconditionally.
func (s *SQLiteStore) UpdateTask(ctx context.Context, t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty: %w", model.ErrBadRequest)
	}
	t.UpdatedAt = time.Now().UTC()
	if t.Deadline != nil {
		utc := t.Deadline.UTC()
		t.Deadline = &utc
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, deadline = ?,
			priority = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.Deadline,
		t.Priority, t.Status, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM task_assignees WHERE task_id = ?", t.ID); err != nil {
		return fmt.Errorf("clearing assignees for task %s: %w", t.ID, err)
	}
	for _, userID := range t.Assignees {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_assignees (task_id, user_id)
			VALUES (?, ?)`, t.ID, userID)
		if err != nil {
			return fmt.Errorf("assigning task to %s: %w", userID, err)
		}
	}

	return tx.Commit()
}

// DeleteTask removes a task by ID. Assignees, comments, and files cascade.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// ListDueTasks retrieves open tasks whose deadline falls inside
// [from, to], with the owning workspace name joined in for message
// rendering. Tasks are returned regardless of membership; the scheduler
// decides recipients from creator and assignees.
func (s *SQLiteStore) ListDueTasks(
	ctx context.Context,
	from, to time.Time,
) ([]DueTask, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT t.id, t.workspace_id, t.title, t.description, t.deadline,
		       t.priority, t.status, t.creator_id, t.created_at, t.updated_at,
		       w.name
		FROM tasks t
		LEFT JOIN workspaces w ON w.id = t.workspace_id
		WHERE t.deadline IS NOT NULL AND t.deadline >= ? AND t.deadline <= ?
		  AND t.status IN (?, ?)
		ORDER BY t.deadline`,
		from.UTC(), to.UTC(), model.StatusTodo, model.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("querying due tasks: %w", err)
	}
	defer rows.Close()

	var due []DueTask
	for rows.Next() {
		var (
			t      model.Task
			wsName *string
		)
		err := rows.Scan(
			&t.ID, &t.WorkspaceID, &t.Title, &t.Description, &t.Deadline,
			&t.Priority, &t.Status, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt,
			&wsName,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning due task row: %w", err)
		}
		dt := DueTask{Task: t, WorkspaceOK: wsName != nil}
		if wsName != nil {
			dt.WorkspaceName = *wsName
		}
		due = append(due, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range due {
		assignees, err := s.getAssignees(ctx, due[i].Task.ID)
		if err != nil {
			return nil, err
		}
		due[i].Task.Assignees = assignees
	}
	return due, nil
}

// queryTasks runs a task query and loads assignees for each result.
func (s *SQLiteStore) queryTasks(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		assignees, err := s.getAssignees(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Assignees = assignees
	}
	return tasks, nil
}

// getAssignees loads the assignee user IDs for a task.
func (s *SQLiteStore) getAssignees(ctx context.Context, taskID string) ([]string, error) {
	var assignees []string
	err := s.db.SelectContext(ctx, &assignees,
		"SELECT user_id FROM task_assignees WHERE task_id = ? ORDER BY user_id", taskID)
	if err != nil {
		return nil, fmt.Errorf("loading assignees for task %s: %w", taskID, err)
	}
	return assignees, nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var t model.Task
	err := rows.Scan(
		&t.ID, &t.WorkspaceID, &t.Title, &t.Description, &t.Deadline,
		&t.Priority, &t.Status, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}
	return t, nil
}

// scanTaskRow scans a single task row from a sqlx.Row.
func scanTaskRow(row *sqlx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.WorkspaceID, &t.Title, &t.Description, &t.Deadline,
		&t.Priority, &t.Status, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}
