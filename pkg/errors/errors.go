// Package errors provides custom error types for the talentsync system.
// These errors enable programmatic error checking at source and job
// boundaries, where the kind of failure decides whether a sync degrades,
// halts, or surfaces a re-auth hint to the operator.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the talentsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthExpired indicates that a source's credential or session is stale
	ErrAuthExpired = errors.New("authentication expired")

	// ErrSourceUnavailable indicates that a source is temporarily unreachable
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrAlreadyRunning indicates a job of the same kind is still running
	ErrAlreadyRunning = errors.New("job already running")

	// ErrAmbiguousIdentity indicates a low-confidence identity match that
	// must be surfaced rather than silently merged
	ErrAmbiguousIdentity = errors.New("ambiguous identity")

	// ErrGenerationFailed indicates the drafting collaborator failed
	ErrGenerationFailed = errors.New("generation failed")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only store
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// AuthExpiredError indicates a source credential or session has gone stale.
// It carries a re-auth hint so job polling can tell the operator how to
// recover; data merged before the failure is kept.
type AuthExpiredError struct {
	Source string
	Hint   string
	Err    error
}

// Error implements the error interface
func (e *AuthExpiredError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("authentication expired for %s: %s", e.Source, e.Hint)
	}
	return fmt.Sprintf("authentication expired for %s", e.Source)
}

// Unwrap implements errors.Unwrap
func (e *AuthExpiredError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthExpiredError) Is(target error) bool {
	return target == ErrAuthExpired
}

// NewAuthExpiredError creates a new AuthExpiredError
func NewAuthExpiredError(source, hint string, err error) *AuthExpiredError {
	return &AuthExpiredError{Source: source, Hint: hint, Err: err}
}

// SourceUnavailableError indicates a transient source failure. The affected
// source's contribution degrades to "no data"; other sources still contribute.
type SourceUnavailableError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *SourceUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s unavailable (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("source %s unavailable: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceUnavailableError) Is(target error) bool {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return target == ErrAuthExpired
	}
	return target == ErrSourceUnavailable
}

// NewSourceUnavailableError creates a new SourceUnavailableError
func NewSourceUnavailableError(source string, statusCode int, message string) *SourceUnavailableError {
	return &SourceUnavailableError{Source: source, StatusCode: statusCode, Message: message}
}

// AmbiguousIdentityError indicates a name-only identity match that spans
// multiple unrelated contexts and therefore must not be auto-merged.
type AmbiguousIdentityError struct {
	Name     string
	Contexts []string
}

// Error implements the error interface
func (e *AmbiguousIdentityError) Error() string {
	return fmt.Sprintf("ambiguous identity %q across contexts %v", e.Name, e.Contexts)
}

// Is implements errors.Is support
func (e *AmbiguousIdentityError) Is(target error) bool {
	return target == ErrAmbiguousIdentity
}

// NewAmbiguousIdentityError creates a new AmbiguousIdentityError
func NewAmbiguousIdentityError(name string, contexts []string) *AmbiguousIdentityError {
	return &AmbiguousIdentityError{Name: name, Contexts: contexts}
}

// MergeConflictError represents a conflicting write observed during a roster
// merge. Under correct field ownership this should not occur; when it does,
// the most recent write wins and the event is logged, not thrown, so this
// type mostly appears in log fields rather than return values.
type MergeConflictError struct {
	Key    string
	Field  string
	Reason string
}

// Error implements the error interface
func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict on %s field %s: %s", e.Key, e.Field, e.Reason)
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(key, field, reason string) *MergeConflictError {
	return &MergeConflictError{Key: key, Field: field, Reason: reason}
}

// GenerationError represents a drafting collaborator failure. Drafting
// failures are isolated per client and never abort the surrounding job.
type GenerationError struct {
	Client  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	if e.Client != "" {
		return fmt.Sprintf("draft generation failed for %s: %s", e.Client, e.Message)
	}
	return fmt.Sprintf("draft generation failed: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(client, message string, err error) *GenerationError {
	return &GenerationError{Client: client, Message: message, Err: err}
}

// JobError represents a job-level failure with the kind that failed
type JobError struct {
	Kind    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *JobError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *JobError) Unwrap() error {
	return e.Err
}

// NewJobError creates a new JobError
func NewJobError(kind, message string, err error) *JobError {
	return &JobError{Kind: kind, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthExpired checks if an error indicates stale credentials
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsSourceUnavailable checks if an error indicates source unavailability
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsAlreadyRunning checks if an error is an already-running job rejection
func IsAlreadyRunning(err error) bool {
	return errors.Is(err, ErrAlreadyRunning)
}

// IsAmbiguousIdentity checks if an error is a low-confidence identity match
func IsAmbiguousIdentity(err error) bool {
	return errors.Is(err, ErrAmbiguousIdentity)
}

// IsGenerationFailed checks if an error is a drafting failure
func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceUnavailableError
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceUnavailableError{Source: source, Message: err.Error(), Err: err}
}

// WrapJob wraps an error as a JobError
func WrapJob(kind string, err error) error {
	if err == nil {
		return nil
	}
	return &JobError{Kind: kind, Message: err.Error(), Err: err}
}
