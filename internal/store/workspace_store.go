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

// CreateWorkspace inserts a new workspace and its creator membership in
// a single transaction, so no reader can ever observe a workspace whose
// creator is not a member.
func (s *SQLiteStore) CreateWorkspace(
	ctx context.Context,
	ws model.Workspace,
) (*model.Workspace, error) {
	if strings.TrimSpace(ws.Name) == "" {
		return nil, fmt.Errorf("workspace name must not be empty: %w", model.ErrBadRequest)
	}
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	ws.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, creator_id, created_at)
		VALUES (?, ?, ?, ?)`,
		ws.ID, ws.Name, ws.CreatorID, ws.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, added_at)
		VALUES (?, ?, ?)`,
		ws.ID, ws.CreatorID, ws.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing workspace: %w", err)
	}
	return &ws, nil
}

// GetWorkspace retrieves a single workspace by ID without any
// membership scoping. Callers that act for a principal should use
// GetWorkspaceForMember instead.
func (s *SQLiteStore) GetWorkspace(
	ctx context.Context,
	id string,
) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name, creator_id, created_at FROM workspaces WHERE id = ?", id,
	).Scan(&ws.ID, &ws.Name, &ws.CreatorID, &ws.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	return &ws, nil
}

// GetWorkspaceForMember retrieves a workspace only if userID is a
// member. A foreign workspace looks identical to a missing one.
func (s *SQLiteStore) GetWorkspaceForMember(
	ctx context.Context,
	userID, id string,
) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.QueryRowxContext(ctx, `
		SELECT w.id, w.name, w.creator_id, w.created_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE w.id = ? AND m.user_id = ?`, id, userID,
	).Scan(&ws.ID, &ws.Name, &ws.CreatorID, &ws.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	return &ws, nil
}

// ListWorkspacesForMember retrieves all workspaces where userID is a
// member, oldest first.
func (s *SQLiteStore) ListWorkspacesForMember(
	ctx context.Context,
	userID string,
) ([]model.Workspace, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT w.id, w.name, w.creator_id, w.created_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = ?
		ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.CreatorID, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace row: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// RenameWorkspace updates a workspace's name.
func (s *SQLiteStore) RenameWorkspace(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("workspace name must not be empty: %w", model.ErrBadRequest)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE workspaces SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("renaming workspace %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteWorkspace removes a workspace. Members, tasks, comments, and
// files cascade.
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM workspaces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting workspace %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// IsMember reports whether userID is in the workspace's member set.
func (s *SQLiteStore) IsMember(
	ctx context.Context,
	userID, workspaceID string,
) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM workspace_members
		WHERE workspace_id = ? AND user_id = ?`, workspaceID, userID)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return count > 0, nil
}

// AddMember inserts a membership row. Reports false without error when
// the user is already a member.
func (s *SQLiteStore) AddMember(
	ctx context.Context,
	workspaceID, userID string,
) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO workspace_members (workspace_id, user_id, added_at)
		VALUES (?, ?, ?)`,
		workspaceID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("adding member to workspace %s: %w", workspaceID, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ListMembers retrieves the member set of a workspace, oldest first.
func (s *SQLiteStore) ListMembers(
	ctx context.Context,
	workspaceID string,
) ([]model.Member, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT workspace_id, user_id, added_at
		FROM workspace_members
		WHERE workspace_id = ?
		ORDER BY added_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying members of workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
