package race

import (
	"errors"
	"fmt"
)

// Sentinel errors for the race coordinator. Transport layers map these to
// status codes; AlreadyCompleted is benign and well-behaved clients ignore it.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("race is not in a valid state for this operation")
	ErrRaceFull         = errors.New("race already has two participants")
	ErrAlreadyCompleted = errors.New("game already completed by this participant")
	ErrAuthRequired     = errors.New("a user or guest name is required")
	ErrUnauthorized     = errors.New("caller identity does not match participant")
	ErrForbidden        = errors.New("caller is not a participant of this race")
)

// ValidationError reports malformed or out-of-range input. It is
// user-correctable and distinct from state or identity failures.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
