package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrArticleNotFound is returned when an article is not found
	ErrArticleNotFound = errors.New("article not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable is returned when a backing store cannot serve a request
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownBackend is returned when configuration names a storage backend that does not exist
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// ArticleNotFoundError represents an article not found error with context
type ArticleNotFoundError struct {
	ArticleID string
}

func (e *ArticleNotFoundError) Error() string {
	return fmt.Sprintf("article with ID '%s' not found", e.ArticleID)
}

func (e *ArticleNotFoundError) Is(target error) bool {
	return target == ErrArticleNotFound
}

// NewArticleNotFoundError creates a new ArticleNotFoundError
func NewArticleNotFoundError(articleID string) *ArticleNotFoundError {
	return &ArticleNotFoundError{ArticleID: articleID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a failure of a storage backend with the operation that failed
type StoreError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store: %s: %v", e.Backend, e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError creates a new StoreError
func NewStoreError(backend, operation string, err error) *StoreError {
	return &StoreError{Backend: backend, Operation: operation, Err: err}
}

// UnknownBackendError names the storage kind and the backend that could not be resolved
type UnknownBackendError struct {
	Kind    string
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown %s backend '%s'", e.Kind, e.Backend)
}

func (e *UnknownBackendError) Is(target error) bool {
	return target == ErrUnknownBackend
}

// NewUnknownBackendError creates a new UnknownBackendError
func NewUnknownBackendError(kind, backend string) *UnknownBackendError {
	return &UnknownBackendError{Kind: kind, Backend: backend}
}
