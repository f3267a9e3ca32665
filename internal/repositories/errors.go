package repositories

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing record with the categorisation services
// expect from RepositoryError.
type NotFoundError struct {
	Kind string
	ID   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) IsNotFound() bool    { return true }
func (e *NotFoundError) IsConflict() bool    { return false }
func (e *NotFoundError) IsUnavailable() bool { return false }

// UnavailableError reports a backend that cannot currently serve requests.
type UnavailableError struct {
	Err error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "repository unavailable"
	}
	return fmt.Sprintf("repository unavailable: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) IsNotFound() bool    { return false }
func (e *UnavailableError) IsConflict() bool    { return false }
func (e *UnavailableError) IsUnavailable() bool { return true }

// IsNotFound reports whether err carries not-found categorisation.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}
