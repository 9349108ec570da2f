package retention

import (
	"errors"
	"fmt"
)

// Cleanup phases reported in CleanupFailedError.
const (
	PhaseSelect  = "select"
	PhaseArchive = "archive"
	PhaseDelete  = "delete"
)

// CleanupFailedError reports a cleanup that did not complete. Deleted is
// zero when the failure happened before the delete phase.
type CleanupFailedError struct {
	Phase     string // Phase that failed ("select", "archive", "delete")
	Deleted   int64  // Records actually removed before the failure
	Attempted int64  // Records targeted for deletion
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *CleanupFailedError) Error() string {
	return fmt.Sprintf("cleanup failed [phase=%s, deleted=%d, attempted=%d]: %v",
		e.Phase, e.Deleted, e.Attempted, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CleanupFailedError) Unwrap() error {
	return e.Cause
}

// NewCleanupFailedError creates a new CleanupFailedError.
func NewCleanupFailedError(phase string, deleted, attempted int64, cause error) *CleanupFailedError {
	return &CleanupFailedError{
		Phase:     phase,
		Deleted:   deleted,
		Attempted: attempted,
		Cause:     cause,
	}
}

// IsCleanupFailed reports whether err is, or wraps, a CleanupFailedError.
func IsCleanupFailed(err error) bool {
	var cf *CleanupFailedError
	return errors.As(err, &cf)
}

// ErrInvalidWindow is returned when a non-positive retention window is
// supplied.
var ErrInvalidWindow = errors.New("retention window must be positive")
