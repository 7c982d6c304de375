// Package apperr defines the error kinds shared by the services and the HTTP layer.
//
// Every kind maps to exactly one HTTP status and one public message. Services
// return (possibly wrapped) sentinels; transports classify them with HTTPStatus
// and render PublicMessage so internal detail never reaches the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrInvalidCredentials covers every failed login and token check.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)

	ErrForbidden    = errors.New("not authorized")
	ErrNotCaregiver = fmt.Errorf("%w: not a caregiver", ErrForbidden)
	ErrNotMember    = fmt.Errorf("%w: not a member", ErrForbidden)

	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("already exists")
	ErrCredentialFormat = errors.New("stored credential has an invalid format")
	ErrStorage          = errors.New("storage failure")
)

// ValidationError lists the offending fields of a rejected input.
type ValidationError struct {
	Fields map[string]string
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a field problem and returns the receiver.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
	return e
}

// OrNil returns nil when no field was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError keeps the collaborator's cause for logging while classifying as ErrStorage.
type StorageError struct {
	Op  string
	Err error
}

// Storage wraps a storage collaborator failure. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// HTTPStatus classifies err into its status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short stable label for err, used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrNotCaregiver), errors.Is(err, ErrNotMember):
		return "role_mismatch"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrCredentialFormat):
		return "credential_format"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

// PublicMessage returns the message safe to show to a client.
func PublicMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials.Error()
	case errors.Is(err, ErrUnauthenticated):
		return ErrUnauthenticated.Error()
	case errors.Is(err, ErrNotCaregiver):
		return ErrNotCaregiver.Error()
	case errors.Is(err, ErrNotMember):
		return ErrNotMember.Error()
	case errors.Is(err, ErrForbidden):
		return ErrForbidden.Error()
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return leading(err)
	default:
		return "internal server error"
	}
}

// leading returns the first segment of a wrapped message so that callers can say
// "job: not found" without exposing anything a storage error might carry.
func leading(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrNotFound, ErrEmailTaken, ErrValidation, ErrConflict} {
		if i := strings.Index(msg, s.Error()); i >= 0 {
			return msg[:i+len(s.Error())]
		}
	}
	return msg
}
