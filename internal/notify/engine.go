// Package notify creates deadline notifications with at-most-once
// delivery per (user, task) pair.
package notify

import (
	"context"

	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/internal/store"
)

// Engine deduplicates notification creation. The (user, task) pair is
// the dedup key: once a notification exists for a pair, further calls
// are no-ops regardless of message content.
type Engine struct {
	store store.Store
}

// New creates an Engine backed by the given store.
func New(s store.Store) *Engine {
	return &Engine{store: s}
}

// NotifyIfNeeded creates a notification for the user about the task
// unless one already exists. The existence check and the insert are a
// single atomic statement in the store, so concurrent scheduler runs
// or retries cannot produce duplicates. Reports whether a notification
// was created.
func (e *Engine) NotifyIfNeeded(ctx context.Context, userID, taskID, message string) (bool, error) {
	return e.store.CreateNotificationIfAbsent(ctx, model.Notification{
		UserID:  userID,
		TaskID:  taskID,
		Message: message,
	})
}
