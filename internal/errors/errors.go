// Package errors provides standardized error types for the certbind CLI tool.
//
// DeployError is the primary error type, carrying a category code, a
// human-readable message, the site involved (if any), and an optional
// wrapped error. Sentinel errors cover the common scenarios and work with
// errors.Is:
//
//	if errors.Is(err, errors.ErrWrongPassword) {
//	    // prompt again
//	}
//
// Per-site commit failures use the COMMIT code so callers can distinguish
// a partial reconciliation from a fatal load or store failure.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeLoad       ErrorCode = "LOAD"       // Certificate file could not be loaded
	ErrCodeParse      ErrorCode = "PARSE"      // Certificate bytes could not be parsed
	ErrCodeValidation ErrorCode = "VALIDATION" // Input validation failed
	ErrCodeConfig     ErrorCode = "CONFIG"     // Tool or server configuration error
	ErrCodeStore      ErrorCode = "STORE"      // Credential store rejected an operation
	ErrCodeCommit     ErrorCode = "COMMIT"     // Site commit failed
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Internal/unexpected error
)

// DeployError represents a structured error with context about the operation.
type DeployError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Site    string    // Site name (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	if e.Site != "" && e.Err != nil {
		return fmt.Sprintf("site %s: %s: %v", e.Site, e.Message, e.Err)
	}
	if e.Site != "" {
		return fmt.Sprintf("site %s: %s", e.Site, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrCertNotFound indicates the certificate file does not exist.
	ErrCertNotFound = &DeployError{Code: ErrCodeLoad, Message: "certificate file not found"}

	// ErrWrongPassword indicates the PKCS#12 password was rejected.
	ErrWrongPassword = &DeployError{Code: ErrCodeLoad, Message: "incorrect password"}

	// ErrMalformedCert indicates the certificate bytes could not be decoded.
	ErrMalformedCert = &DeployError{Code: ErrCodeParse, Message: "malformed certificate"}

	// ErrNoIdentities indicates the certificate carries no usable domain identities.
	ErrNoIdentities = &DeployError{Code: ErrCodeValidation, Message: "certificate has no domain identities"}

	// ErrStoreClosed indicates an operation on a store handle that was already released.
	ErrStoreClosed = &DeployError{Code: ErrCodeStore, Message: "credential store is closed"}

	// ErrConfigInvalid indicates the configuration is invalid or corrupt.
	ErrConfigInvalid = &DeployError{Code: ErrCodeConfig, Message: "invalid configuration"}
)

// Load creates a LOAD error wrapping an underlying cause.
func Load(msg string, err error) error {
	return &DeployError{Code: ErrCodeLoad, Message: msg, Err: err}
}

// Parse creates a PARSE error wrapping an underlying cause.
func Parse(msg string, err error) error {
	return &DeployError{Code: ErrCodeParse, Message: msg, Err: err}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &DeployError{Code: ErrCodeValidation, Message: msg}
}

// Store creates a STORE error wrapping an underlying cause.
func Store(msg string, err error) error {
	return &DeployError{Code: ErrCodeStore, Message: msg, Err: err}
}

// Commit creates a COMMIT error carrying the failed site's name. It returns
// the concrete type so callers aggregating per-site failures can read the
// site without a type assertion.
func Commit(site string, err error) *DeployError {
	return &DeployError{Code: ErrCodeCommit, Message: "commit failed", Site: site, Err: err}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &DeployError{Code: code, Message: msg, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
