package domain

import (
	"errors"
	"fmt"
)

// Base error kinds for errors.Is checks
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrValidation      = errors.New("validation error")
)

// Entity names used in errors
const (
	EntityStudent = "student"
	EntitySubject = "subject"
	EntityRecord  = "record"
)

// MalformedRecordError is returned when a stored line cannot be decoded
type MalformedRecordError struct {
	Line   string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record %q: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed record %q: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// DuplicateIDError is returned when creating an entity whose id is taken
type DuplicateIDError struct {
	Entity string
	ID     string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// NotFoundError is returned when an operation references a missing student,
// subject or enrollment record
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyEnrolledError is returned when enrolling a pair that is already enrolled
type AlreadyEnrolledError struct {
	StudentID string
	SubjectID string
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("student %q is already enrolled in subject %q", e.StudentID, e.SubjectID)
}

func (e *AlreadyEnrolledError) Is(target error) bool {
	return target == ErrAlreadyEnrolled
}

// ValidationError is returned when an input field fails a check
type ValidationError struct {
	Field string
	Rule  string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: failed %s", e.Field, e.Value, e.Rule)
	}
	return fmt.Sprintf("invalid %s: failed %s", e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
