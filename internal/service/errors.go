package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/store"
)

// Sentinel errors returned by the catalog services.
var (
	// ErrBookNotFound indicates that the book does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrBookNotFound = errors.New("book not found")

	// ErrAuthorNotFound indicates that the author does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrUnknownAuthor is returned when a book references an author that
	// does not exist or is deleted. It is a validation failure.
	ErrUnknownAuthor = fmt.Errorf("%w: referenced author does not exist", domain.ErrValidation)
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapError returns known sentinels directly and wraps anything else.
func wrapError(service, operation, message string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBookNotFound), errors.Is(err, store.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, ErrAuthorNotFound), errors.Is(err, store.ErrAuthorNotFound):
		return ErrAuthorNotFound
	case errors.Is(err, domain.ErrValidation):
		return err
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
