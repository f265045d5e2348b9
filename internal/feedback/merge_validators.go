package feedback

import (
	"context"
	"errors"
)

// MergeValidator re-checks, at merge time, that everything the payload
// references still exists. Review cycles take time; the parent or target may
// have been deleted since submission. A failure aborts the merge and leaves
// the feedback in its approved status for a later retry.
type MergeValidator interface {
	TargetType() TargetType
	Validate(ctx context.Context, q *Queue) error
}

// mergeRecheck runs a payload validator against the persisted feedback and
// reclassifies any validation failure as a merge-time error. The checks are
// identical to submission; only the error taxonomy differs.
type mergeRecheck struct {
	inner PayloadValidator
}

// NewMergeValidator derives the merge-time validator for a target type from
// its submission-time payload validator.
func NewMergeValidator(inner PayloadValidator) MergeValidator {
	return &mergeRecheck{inner: inner}
}

func (m *mergeRecheck) TargetType() TargetType { return m.inner.TargetType() }

func (m *mergeRecheck) Validate(ctx context.Context, q *Queue) error {
	err := m.inner.Validate(ctx, SubmitRequest{
		TargetType:   q.TargetType,
		TargetID:     q.TargetID,
		FeedbackType: q.FeedbackType,
		Payload:      q.Payload,
	})
	if err == nil {
		return nil
	}

	var payloadErr *PayloadError
	var refErr *ReferenceError
	switch {
	case errors.As(err, &refErr):
		return &MergeValidationError{ID: q.ID, TargetType: q.TargetType, Reason: refErr.Error()}
	case errors.As(err, &payloadErr):
		return &MergeValidationError{ID: q.ID, TargetType: q.TargetType, Reason: payloadErr.Reason}
	default:
		// Infrastructure failure, not a staleness problem.
		return err
	}
}
