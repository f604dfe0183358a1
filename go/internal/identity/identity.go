// Package identity carries the resolved caller identity through coordinator
// operations. Authentication itself happens upstream; handlers receive the
// already-verified user id (or nothing, for anonymous callers) and pass an
// Identity value explicitly so the state machine stays testable without an
// HTTP layer.
package identity

import "github.com/google/uuid"

// Identity is the caller identity for a single operation.
type Identity struct {
	userID *uuid.UUID
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// User returns the identity of an authenticated user.
func User(id uuid.UUID) Identity {
	return Identity{userID: &id}
}

// IsAnonymous reports whether no user is authenticated.
func (i Identity) IsAnonymous() bool {
	return i.userID == nil
}

// UserID returns the authenticated user id and whether one is present.
func (i Identity) UserID() (uuid.UUID, bool) {
	if i.userID == nil {
		return uuid.Nil, false
	}
	return *i.userID, true
}

// Is reports whether the identity is the given user.
func (i Identity) Is(id uuid.UUID) bool {
	return i.userID != nil && *i.userID == id
}
