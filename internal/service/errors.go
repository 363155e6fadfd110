package service

import (
	"errors"
	"fmt"

	"archive-lens/internal/backend"
	"archive-lens/internal/locator"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrArchiveGone is returned when the archive being viewed was removed.
	// Callers should send the user back to search.
	ErrArchiveGone = errors.New("archive no longer exists")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// BackendError is a classified document backend failure. Kind is one of the
// sentinel errors above; Message is the backend's user-visible text.
type BackendError struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *BackendError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// fromBackend classifies err for the handlers. Anything the backend does not
// mark as the caller's fault is an external failure.
func fromBackend(err error, op string) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	kind := ErrExternalService
	switch {
	case backend.IsArchiveGone(err):
		kind = ErrArchiveGone
	case errors.Is(err, backend.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, backend.ErrInvalidRequest), errors.Is(err, locator.ErrInvalidLocator):
		kind = ErrInvalidInput
	}
	return &BackendError{Op: op, Kind: kind, Message: backend.Message(err), Err: err}
}
