package assessment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Service.GetByID when no assessment has the
// requested id.
var ErrNotFound = errors.New("assessment not found")

// ErrDuplicateID is wrapped by a StorageError when Insert is given an id
// that is already stored.
var ErrDuplicateID = errors.New("duplicate assessment id")

// ValidationError reports submission fields that were required but absent.
type ValidationError struct {
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// NewValidationError creates a new ValidationError.
func NewValidationError(missing ...string) *ValidationError {
	return &ValidationError{Missing: missing}
}

// StorageError represents a failure of the backing store: connection loss,
// timeout, or a rejected statement.
type StorageError struct {
	Backend   string // Storage backend type ("memory", "sqlite", "postgres")
	Operation string // Operation that failed ("insert", "find_older_than", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// IsStoreUnavailable reports whether err is, or wraps, a StorageError.
func IsStoreUnavailable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ExportError represents an error while exporting assessments.
type ExportError struct {
	Format      string // Export format ("json", "csv")
	RecordCount int    // Number of records being exported
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, records=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}
