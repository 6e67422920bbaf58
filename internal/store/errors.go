package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across stores.
var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login failures do not reveal whether an account
	// exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail surfaces the storage-level unique constraint on
	// the email column.
	ErrDuplicateEmail = errors.New("the email has already been taken")

	// ErrPasswordMismatch is returned when the current password supplied
	// to a password change does not verify.
	ErrPasswordMismatch = errors.New("old password does not match")

	// ErrOTPInvalid and ErrOTPExpired report one-time code redemption
	// failures.
	ErrOTPInvalid = errors.New("invalid verification code")
	ErrOTPExpired = errors.New("verification code expired")
)

// NotFoundError reports an absent resource by name.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ReferenceError reports a dangling foreign reference on enquiry or
// listing creation. Field names the side that failed to resolve.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return "invalid reference: " + e.Field
}

// IsReference reports whether err is a ReferenceError.
func IsReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}
