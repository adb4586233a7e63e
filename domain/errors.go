package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or lookup targets a row that does
// not exist.
var ErrNotFound = errors.New("attendance record not found")

// ErrNoData marks an empty report or digest result set. It is not a failure;
// callers must handle it separately from BackendError.
var ErrNoData = errors.New("no attendance data found")

// Digest skip reasons.
var (
	ErrSkipNoPhone   = errors.New("student has no phone number on file")
	ErrSkipNoCourses = errors.New("student has no attendance recorded for this date")
)

// ValidationError covers malformed or oversized batches. The client must fix
// the request; retrying as-is will fail again.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// LockConflictError is returned when attendance has already been taken for a
// course on a date. Only updates are allowed for that pair afterwards.
type LockConflictError struct {
	CourseID        string
	Date            string
	ExistingRecords int
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("attendance has already been taken for course %s on %s (%d existing records)", e.CourseID, e.Date, e.ExistingRecords)
}

// BackendError wraps storage failures. These are retryable.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
