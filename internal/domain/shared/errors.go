// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors for errors.Is() checking.
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("datastore unavailable")
	ErrTimeout          = errors.New("operation timeout")
)

// DomainError is a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "student", "template", "lessonplan"
	Op      string // operation that failed, e.g. "Create", "Recommend"
	Kind    error  // base error type for errors.Is() checking
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message, Err: err}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrInvalidGrade         = NewDomainError("student", "Validate", ErrInvalidFormat, "invalid grade format")
)

// Template domain errors
var (
	ErrTemplateNotFound = NewDomainError("template", "Find", ErrNotFound, "template not found")
	ErrEmptyContext     = NewDomainError("template", "Recommend", ErrInvalidInput, "recommendation context is empty")
)

// Activity domain errors
var (
	ErrEmptyStage = NewDomainError("activity", "Propose", ErrEmptyValue, "stage is required")
)

// Lesson plan domain errors
var (
	ErrLessonPlanNotFound = NewDomainError("lessonplan", "Find", ErrNotFound, "lesson plan not found")
	ErrLessonPlanInvalid  = NewDomainError("lessonplan", "Validate", ErrInvalidEntity, "lesson plan is invalid")
)
