package feedback

import (
	"errors"
	"fmt"
)

// ErrConcurrentModification is surfaced by repository implementations when an
// optimistic version check rejects a racing writer. Callers may retry the
// whole load-validate-persist cycle.
var ErrConcurrentModification = errors.New("feedback: concurrent modification")

// NotFoundError indicates the requested feedback id does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feedback %d not found", e.ID)
}

// InvalidTransitionError indicates an action was attempted from a status that
// does not permit it. It carries the current status and the attempted action
// so the caller can diagnose the rejected request.
type InvalidTransitionError struct {
	ID     int64
	Status Status
	Action Action
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("feedback %d: cannot %s from status %s: %s", e.ID, e.Action, e.Status, e.Reason)
	}
	return fmt.Sprintf("feedback %d: cannot %s from status %s", e.ID, e.Action, e.Status)
}

// PayloadError indicates a submission payload failed shape validation.
// Submission is rejected before any row is created.
type PayloadError struct {
	TargetType   TargetType
	FeedbackType Type
	Reason       string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid %s payload for %s feedback: %s", e.TargetType, e.FeedbackType, e.Reason)
}

// ReferenceError indicates an entity referenced by a submission payload (the
// parent container, or the target itself for MODIFY/DELETE) does not exist.
type ReferenceError struct {
	TargetType TargetType
	Entity     string
	ID         int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s feedback references missing %s %d", e.TargetType, e.Entity, e.ID)
}

// MergeValidationError indicates a referenced entity vanished between
// submission and merge. The feedback stays in its approved status; once the
// underlying data issue is fixed the merge can be retried.
type MergeValidationError struct {
	ID         int64
	TargetType TargetType
	Reason     string
}

func (e *MergeValidationError) Error() string {
	return fmt.Sprintf("feedback %d: merge validation failed for %s: %s", e.ID, e.TargetType, e.Reason)
}

// UnsupportedTargetTypeError indicates no validator or strategy is registered
// for a target type. This is a deployment defect, caught by the registry's
// startup completeness check, never a per-request condition.
type UnsupportedTargetTypeError struct {
	TargetType TargetType
	Component  string
}

func (e *UnsupportedTargetTypeError) Error() string {
	return fmt.Sprintf("no %s registered for target type %s", e.Component, e.TargetType)
}

// IsRetryable reports whether the error class permits retrying the same
// request once the environment changes. Merge validation failures and
// optimistic-concurrency conflicts are retryable; caller errors are not.
func IsRetryable(err error) bool {
	var mv *MergeValidationError
	if errors.As(err, &mv) {
		return true
	}
	return errors.Is(err, ErrConcurrentModification)
}
