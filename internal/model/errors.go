package model

import "errors"

// Domain error taxonomy. Repository and authorization operations wrap
// these sentinels with context; callers match with errors.Is and map
// them to whatever transport they serve.
var (
	// ErrForbidden means the acting user is not a member of the
	// relevant workspace, or an owner-only rule applies.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity, or a referenced user,
	// does not exist. Also returned for workspaces the actor cannot
	// reach, so lookups never leak existence.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest means the input was malformed, such as an
	// unparsable date or a missing required field.
	ErrBadRequest = errors.New("bad request")

	// ErrConflict means the operation would duplicate existing state,
	// such as adding a user who is already a member.
	ErrConflict = errors.New("conflict")
)
