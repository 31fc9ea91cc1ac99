// Package repo is the authorization-scoped data access layer. Every
// operation takes the acting principal's user ID as its first argument
// after the context; actor-identity fields (task creator, comment
// author) are always sourced from that principal, never from client
// input. Expected domain conditions surface as the typed errors in
// package model.
package repo

import (
	"time"

	"github.com/nhle/teamspace/internal/authz"
	"github.com/nhle/teamspace/internal/identity"
	"github.com/nhle/teamspace/internal/store"
)

// Repository exposes workspace, task, comment, file, and notification
// operations to external request handlers.
type Repository struct {
	store     store.Store
	authz     *authz.Authorizer
	directory identity.Directory
	loc       *time.Location
}

// New creates a Repository. loc is the server's configured timezone,
// used for calendar-day deadline queries; nil means UTC.
func New(s store.Store, dir identity.Directory, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{
		store:     s,
		authz:     authz.New(s),
		directory: dir,
		loc:       loc,
	}
}

// TaskFields is the writable field set for task create and update.
// Empty priority and status resolve to their defaults (medium, todo).
type TaskFields struct {
	Title       string
	Description string
	Deadline    *time.Time
	Priority    string
	Status      string
	Assignees   []string
}
