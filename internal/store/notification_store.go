package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/teamspace/internal/model"
)

// CreateNotificationIfAbsent inserts a notification unless one already
// exists for the same (user, task) pair. The uniqueness check rides on
// the UNIQUE(user_id, task_id) index, so concurrent callers cannot both
// insert; exactly one observes created=true.
func (s *SQLiteStore) CreateNotificationIfAbsent(
	ctx context.Context,
	n model.Notification,
) (bool, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, task_id, message, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, task_id) DO NOTHING`,
		n.ID, n.UserID, n.TaskID, n.Message, n.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("creating notification: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ListNotificationsForUser retrieves a user's notifications, newest first.
func (s *SQLiteStore) ListNotificationsForUser(
	ctx context.Context,
	userID string,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, user_id, task_id, message, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying notifications for %s: %w", userID, err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
