package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds, as reported by KindOf.
const (
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindStore      = "store"
	KindConflict   = "conflict"
	KindInternal   = "internal"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports an unknown class, student or record.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

func (err NotFoundError) Error() string {
	if err.Key == "" {
		return err.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", err.Resource, err.Key)
}

// StoreError wraps a failure of the persistence collaborator.
// It is transient: callers may retry the whole operation.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func (err StoreError) Error() string {
	if err.Err == nil {
		return err.Op + ": store failure"
	}
	return err.Op + ": " + err.Err.Error()
}

// Unwrap exposes the cause to errors.Is/As.
// StoreError has no Cause method: errors.Cause must stop here.
func (err StoreError) Unwrap() error { return err.Err }

// ConflictError is reserved for optimistic concurrency failures.
type ConflictError struct {
	Err error
}

func NewConflictError(err error) error {
	return &ConflictError{Err: err}
}

func (err ConflictError) Error() string {
	if err.Err == nil {
		return "conflict"
	}
	return err.Err.Error()
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsStore(err error) bool {
	_, ok := errors.Cause(err).(*StoreError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// IsTyped reports whether err already carries one of the core error kinds.
func IsTyped(err error) bool {
	return KindOf(err) != KindInternal
}

// KindOf names the kind of err.
func KindOf(err error) string {
	switch errors.Cause(err).(type) {
	case *ValidationError:
		return KindValidation
	case *NotFoundError:
		return KindNotFound
	case *StoreError:
		return KindStore
	case *ConflictError:
		return KindConflict
	default:
		return KindInternal
	}
}
