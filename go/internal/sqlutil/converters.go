package sqlutil

import (
	"time"

	"github.com/google/uuid"
)

// Helper functions for converting between pointer fields and their zero
// values when scanning nullable columns.

// TimePtr returns a pointer to t, or nil when t is the zero time.
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// TimeVal dereferences t, returning the zero time for nil.
func TimeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// UUIDPtr returns a pointer to id, or nil for the nil UUID.
func UUIDPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// UUIDVal dereferences id, returning uuid.Nil for nil.
func UUIDVal(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
