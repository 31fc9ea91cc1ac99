// Package identity is the client side of the external identity store.
// The core never manages user accounts or credentials; it only resolves
// usernames to user IDs when adding workspace members.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/nhle/teamspace/internal/model"
)

// User is the slice of the external identity record this core needs.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Directory resolves users in the external identity store.
type Directory interface {
	// LookupUsername resolves a username to a user. Returns
	// model.ErrNotFound (wrapped) when no such user exists.
	LookupUsername(ctx context.Context, username string) (*User, error)
}

// MemoryDirectory is an in-process Directory for tests and single-node
// development.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]User)}
}

// Add registers a user under its username, replacing any previous entry.
func (d *MemoryDirectory) Add(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.Username] = u
}

// LookupUsername implements Directory.
func (d *MemoryDirectory) LookupUsername(ctx context.Context, username string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, model.ErrNotFound)
	}
	return &u, nil
}
