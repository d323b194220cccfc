package errors

import (
	"fmt"
	"strings"
	"time"
)

// ServiceError is the common surface of all dispatch-level errors. Code
// identifies the error kind on the wire, Detail carries structured context
// for the response envelope, and HTTPStatus is the status the thin HTTP
// wrapper maps the error to.
type ServiceError interface {
	error
	Code() string
	Detail() map[string]any
	HTTPStatus() int
}

// Error codes as they appear in response envelopes.
const (
	CodeVerifierNotFound = "verifier_not_found"
	CodeInvalidConfig    = "invalid_config"
	CodeInvalidFilter    = "invalid_filter"
	CodeVerification     = "verification_error"
	CodeFiltering        = "filtering_error"
	CodeTimeout          = "timeout"
	CodeQueueFull        = "queue_full"
	CodeInternal         = "internal_error"
)

// VerifierNotFoundError indicates the requested verifier name is not
// registered. Available lists the registered names for the envelope detail.
type VerifierNotFoundError struct {
	Name      string
	Available []string
}

// NewVerifierNotFoundError constructs a VerifierNotFoundError.
func NewVerifierNotFoundError(name string, available []string) *VerifierNotFoundError {
	return &VerifierNotFoundError{Name: name, Available: available}
}

func (e *VerifierNotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("verifier '%s' not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Code identifies the error kind on the wire.
func (e *VerifierNotFoundError) Code() string { return CodeVerifierNotFound }

// Detail lists the registered verifier names.
func (e *VerifierNotFoundError) Detail() map[string]any {
	return map[string]any{"available": append([]string(nil), e.Available...)}
}

// HTTPStatus maps to 404.
func (e *VerifierNotFoundError) HTTPStatus() int { return 404 }

// Is matches any VerifierNotFoundError.
func (e *VerifierNotFoundError) Is(target error) bool {
	_, ok := target.(*VerifierNotFoundError)
	return ok
}

// InvalidConfigError indicates config keys outside the verifier's declared
// option set.
type InvalidConfigError struct {
	Verifier       string
	InvalidOptions []string
}

// NewInvalidConfigError constructs an InvalidConfigError.
func NewInvalidConfigError(verifier string, invalidOptions []string) *InvalidConfigError {
	return &InvalidConfigError{Verifier: verifier, InvalidOptions: invalidOptions}
}

func (e *InvalidConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid config options for verifier '%s': %s", e.Verifier, strings.Join(e.InvalidOptions, ", "))
}

// Code identifies the error kind on the wire.
func (e *InvalidConfigError) Code() string { return CodeInvalidConfig }

// Detail lists the offending option keys.
func (e *InvalidConfigError) Detail() map[string]any {
	return map[string]any{"invalid_options": append([]string(nil), e.InvalidOptions...)}
}

// HTTPStatus maps to 422.
func (e *InvalidConfigError) HTTPStatus() int { return 422 }

// Is matches any InvalidConfigError.
func (e *InvalidConfigError) Is(target error) bool {
	_, ok := target.(*InvalidConfigError)
	return ok
}

// InvalidFilterError indicates filter roles outside the verifier's allowed
// role set.
type InvalidFilterError struct {
	Verifier     string
	InvalidRoles []string
}

// NewInvalidFilterError constructs an InvalidFilterError.
func NewInvalidFilterError(verifier string, invalidRoles []string) *InvalidFilterError {
	return &InvalidFilterError{Verifier: verifier, InvalidRoles: invalidRoles}
}

func (e *InvalidFilterError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid filter roles for verifier '%s': %s", e.Verifier, strings.Join(e.InvalidRoles, ", "))
}

// Code identifies the error kind on the wire.
func (e *InvalidFilterError) Code() string { return CodeInvalidFilter }

// Detail lists the offending roles.
func (e *InvalidFilterError) Detail() map[string]any {
	return map[string]any{"invalid_roles": append([]string(nil), e.InvalidRoles...)}
}

// HTTPStatus maps to 422.
func (e *InvalidFilterError) HTTPStatus() int { return 422 }

// Is matches any InvalidFilterError.
func (e *InvalidFilterError) Is(target error) bool {
	_, ok := target.(*InvalidFilterError)
	return ok
}

// VerificationError wraps a framework-level failure during pipeline
// execution. Handler failures never raise this; they are recorded as invalid
// results instead.
type VerificationError struct {
	Verifier string
	Err      error
}

// NewVerificationError constructs a VerificationError.
func NewVerificationError(verifier string, err error) *VerificationError {
	return &VerificationError{Verifier: verifier, Err: err}
}

func (e *VerificationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Verifier != "" {
		return fmt.Sprintf("verification error in '%s': %v", e.Verifier, e.Err)
	}
	return fmt.Sprintf("verification error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *VerificationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Code identifies the error kind on the wire.
func (e *VerificationError) Code() string { return CodeVerification }

// Detail is empty for verification errors; the message carries the context.
func (e *VerificationError) Detail() map[string]any { return nil }

// HTTPStatus maps to 400.
func (e *VerificationError) HTTPStatus() int { return 400 }

// Is matches any VerificationError.
func (e *VerificationError) Is(target error) bool {
	_, ok := target.(*VerificationError)
	return ok
}

// FilteringError indicates an internal failure while compiling or evaluating
// a filter predicate (for example an invalid regex criterion).
type FilteringError struct {
	Role string
	Err  error
}

// NewFilteringError constructs a FilteringError.
func NewFilteringError(role string, err error) *FilteringError {
	return &FilteringError{Role: role, Err: err}
}

func (e *FilteringError) Error() string {
	if e == nil {
		return ""
	}
	if e.Role != "" {
		return fmt.Sprintf("filtering error for role '%s': %v", e.Role, e.Err)
	}
	return fmt.Sprintf("filtering error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *FilteringError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Code identifies the error kind on the wire.
func (e *FilteringError) Code() string { return CodeFiltering }

// Detail names the role whose criteria failed to compile.
func (e *FilteringError) Detail() map[string]any {
	if e.Role == "" {
		return nil
	}
	return map[string]any{"role": e.Role}
}

// HTTPStatus maps to 422.
func (e *FilteringError) HTTPStatus() int { return 422 }

// Is matches any FilteringError.
func (e *FilteringError) Is(target error) bool {
	_, ok := target.(*FilteringError)
	return ok
}

// TimeoutError indicates the per-request deadline elapsed before a worker
// finished. The in-flight worker is allowed to complete; its result is
// discarded.
type TimeoutError struct {
	Verifier string
	Limit    time.Duration
}

// NewTimeoutError constructs a TimeoutError.
func NewTimeoutError(verifier string, limit time.Duration) *TimeoutError {
	return &TimeoutError{Verifier: verifier, Limit: limit}
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("verification of '%s' timed out after %s", e.Verifier, e.Limit)
}

// Code identifies the error kind on the wire.
func (e *TimeoutError) Code() string { return CodeTimeout }

// Detail carries the configured limit in milliseconds.
func (e *TimeoutError) Detail() map[string]any {
	return map[string]any{"timeout_ms": e.Limit.Milliseconds()}
}

// HTTPStatus maps to 504.
func (e *TimeoutError) HTTPStatus() int { return 504 }

// Is matches any TimeoutError.
func (e *TimeoutError) Is(target error) bool {
	_, ok := target.(*TimeoutError)
	return ok
}

// QueueFullError indicates the dispatcher's bounded queue rejected an
// enqueue.
type QueueFullError struct {
	Capacity int
}

// NewQueueFullError constructs a QueueFullError.
func NewQueueFullError(capacity int) *QueueFullError {
	return &QueueFullError{Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("verification queue is full (capacity %d)", e.Capacity)
}

// Code identifies the error kind on the wire.
func (e *QueueFullError) Code() string { return CodeQueueFull }

// Detail carries the queue capacity.
func (e *QueueFullError) Detail() map[string]any {
	return map[string]any{"capacity": e.Capacity}
}

// HTTPStatus maps to 429.
func (e *QueueFullError) HTTPStatus() int { return 429 }

// Is matches any QueueFullError.
func (e *QueueFullError) Is(target error) bool {
	_, ok := target.(*QueueFullError)
	return ok
}
