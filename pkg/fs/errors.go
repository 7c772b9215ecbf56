package fs

import "errors"

// EntryError represents a domain error from filesystem tree operations.
//
// These are business logic errors (entry not found, wrong entry kind, etc.)
// as opposed to infrastructure errors (I/O failure reading a real directory).
//
// Callers translate EntryError codes into their own failure handling: the
// sendstream interpreter aborts the current batch, the directory importer
// surfaces them to the CLI.
type EntryError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the tree path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a tree error.
type ErrorCode int

const (
	// ErrNotFound indicates the targeted path has no entry in the tree.
	// Mutations (chmod, chown, rename, clone) require the target to exist.
	ErrNotFound ErrorCode = iota

	// ErrWrongKind indicates an operation expected a file but found a
	// directory, or vice versa.
	ErrWrongKind

	// ErrNotSupported indicates the directory importer encountered an
	// entry kind it does not model (currently: symbolic links).
	ErrNotSupported

	// ErrInvalidArgument indicates invalid parameters were provided.
	// Examples: a write that would leave a hole or overlap an extent.
	ErrInvalidArgument
)

func newNotFound(path string) *EntryError {
	return &EntryError{Code: ErrNotFound, Message: "entry not found", Path: path}
}

func newWrongKind(path string, want EntryKind) *EntryError {
	return &EntryError{Code: ErrWrongKind, Message: "entry is not a " + want.String(), Path: path}
}

// IsNotFound reports whether err is an EntryError with code ErrNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsWrongKind reports whether err is an EntryError with code ErrWrongKind.
func IsWrongKind(err error) bool {
	return hasCode(err, ErrWrongKind)
}

// IsNotSupported reports whether err is an EntryError with code ErrNotSupported.
func IsNotSupported(err error) bool {
	return hasCode(err, ErrNotSupported)
}

func hasCode(err error, code ErrorCode) bool {
	var entryErr *EntryError
	if errors.As(err, &entryErr) {
		return entryErr.Code == code
	}
	return false
}
