package models

import (
	"errors"
	"fmt"
)

// Validation errors: rejected before any mutation.
var (
	ErrInvalidDateRange = errors.New("finish date must be after start date")
	ErrPastDate         = errors.New("start date must be in the future")
	ErrMaxDuration      = errors.New("shift duration exceeds the maximum")
	ErrNoTasksAvailable = errors.New("no tasks available to build a schedule")
)

// State-conflict errors: the entity is not in a state accepting the
// operation; no retry will help.
var (
	ErrShiftAlreadyExists      = errors.New("a shift is already preparing or started")
	ErrDuplicatePendingRequest = errors.New("a pending request for this shift already exists")
	ErrReportNotAccepting      = errors.New("report is not accepting submissions")
	ErrAwaitingPhoto           = errors.New("report has no photo to review yet")
)

// Resource-exhaustion errors: surfaced verbatim to the submitting user.
var (
	ErrAttemptsExceeded = errors.New("report submission attempts exhausted")
	ErrDuplicatePhoto   = errors.New("photo was already used in another report")
	ErrPhotoUnavailable = errors.New("photo url is not reachable")
)

// Not-found errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrNoCurrentTask = errors.New("no task report for the current date")
	ErrNoOpenShift   = errors.New("no shift is open for registration")
)

// ErrNotifyFailed wraps delivery failures of the telegram dispatcher. It is
// never a reason to unwind an already committed state change.
var ErrNotifyFailed = errors.New("notification delivery failed")

// AlreadyReviewedError reports a transition attempt on an entity whose
// review is final, carrying the status the caller lost to.
type AlreadyReviewedError struct {
	Status string
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("already reviewed: status is %q", e.Status)
}

func AlreadyReviewed[S ~string](status S) error {
	return &AlreadyReviewedError{Status: string(status)}
}

// InvalidTransitionError reports an illegal status transition.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot go from %q to %q", e.Entity, e.From, e.To)
}
