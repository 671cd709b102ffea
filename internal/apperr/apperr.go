// Package apperr defines the error taxonomy shared by the relationship
// services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the broad failure classes.
var (
	// ErrNotFound is returned for unknown users and missing edges.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the actor is not the sender/receiver
	// the operation requires. Kept distinct from ErrNotFound.
	ErrUnauthorized = errors.New("not allowed")

	// ErrDuplicatePair is the storage-level signal that a second active edge
	// for the same unordered pair was about to be created. Repositories map
	// their uniqueness violations to this error.
	ErrDuplicatePair = errors.New("active edge already exists for pair")
)

// ConflictReason distinguishes why a mutation conflicted with existing state.
type ConflictReason string

const (
	ConflictDuplicateRequest ConflictReason = "duplicate_request"
	ConflictAlreadyFriends   ConflictReason = "already_friends"
	ConflictAlreadyFollowing ConflictReason = "already_following"
)

// ConflictError reports a mutation that lost to existing state.
type ConflictError struct {
	Reason ConflictReason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// Conflict builds a ConflictError with the given reason.
func Conflict(reason ConflictReason) error {
	return &ConflictError{Reason: reason}
}

// ValidationError reports malformed or self-referential input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError, returning its reason.
func IsConflict(err error) (ConflictReason, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason, true
	}
	return "", false
}
