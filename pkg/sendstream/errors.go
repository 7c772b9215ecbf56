package sendstream

import (
	"errors"

	"github.com/google/uuid"
)

// StreamError represents a domain error from interpreting a command batch.
//
// Any StreamError aborts the current batch immediately: nothing partial is
// committed to the ledger. Recovery (e.g. re-fetching a missing parent
// batch and re-submitting) is the caller's responsibility.
//
// Tree-level failures (missing entry, wrong entry kind) surface as
// *fs.EntryError from the underlying Filesystem and abort the batch the
// same way.
type StreamError struct {
	// Code is the error category
	Code StreamErrorCode

	// Message is a human-readable error description
	Message string

	// UUID is the subvolume identifier related to the error (if applicable)
	UUID uuid.UUID
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.UUID != uuid.Nil {
		return e.Message + ": " + e.UUID.String()
	}
	return e.Message
}

// StreamErrorCode represents the category of a stream error.
type StreamErrorCode int

const (
	// ErrInvariantViolated indicates a structural precondition failed,
	// e.g. a batch that does not begin with a subvol or snapshot command.
	ErrInvariantViolated StreamErrorCode = iota

	// ErrMissingParent indicates a snapshot batch references a parent
	// UUID that has not yet been recorded in the ledger. Batches must be
	// supplied in dependency order; this is a hard error, not a retry.
	ErrMissingParent
)

func newInvariantViolated(message string) *StreamError {
	return &StreamError{Code: ErrInvariantViolated, Message: "invariant violated: " + message}
}

func newMissingParent(parent uuid.UUID) *StreamError {
	return &StreamError{
		Code:    ErrMissingParent,
		Message: "parent subvol not yet received",
		UUID:    parent,
	}
}

// IsInvariantViolated reports whether err is a StreamError with code
// ErrInvariantViolated.
func IsInvariantViolated(err error) bool {
	return hasCode(err, ErrInvariantViolated)
}

// IsMissingParent reports whether err is a StreamError with code
// ErrMissingParent.
func IsMissingParent(err error) bool {
	return hasCode(err, ErrMissingParent)
}

func hasCode(err error, code StreamErrorCode) bool {
	var streamErr *StreamError
	if errors.As(err, &streamErr) {
		return streamErr.Code == code
	}
	return false
}
