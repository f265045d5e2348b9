package feedback

import (
	"fmt"
	"time"
)

// Queue is the feedback queue aggregate root. All state transitions go
// through its methods; direct status writes are never legal.
//
// Transition graph:
//
//	PENDING → LLM_APPROVED | LLM_REJECTED(terminal)
//	LLM_APPROVED → HUMAN_APPROVED | HUMAN_REJECTED(terminal)   (non-SAFE only)
//	LLM_APPROVED(SAFE) | HUMAN_APPROVED → MERGED(terminal)
type Queue struct {
	ID           int64      `db:"id"`
	TargetType   TargetType `db:"target_type"`
	TargetID     *int64     `db:"target_id"`
	FeedbackType Type       `db:"feedback_type"`
	RiskLevel    RiskLevel  `db:"risk_level"`
	Payload      string     `db:"payload"`
	Status       Status     `db:"status"`
	ReviewNotes  string     `db:"review_notes"`
	Version      int64      `db:"version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// NewQueue creates a pending feedback. Risk is classified once here and is
// immutable afterward. ID stays zero until the repository assigns one.
func NewQueue(targetType TargetType, targetID *int64, feedbackType Type, payload string, now time.Time) (*Queue, error) {
	if !targetType.Validate() {
		return nil, fmt.Errorf("invalid target type: %q", targetType)
	}
	if !feedbackType.Validate() {
		return nil, fmt.Errorf("invalid feedback type: %q", feedbackType)
	}
	if feedbackType.RequiresTarget() && targetID == nil {
		return nil, fmt.Errorf("target id is required for %s feedback", feedbackType)
	}
	return &Queue{
		TargetType:   targetType,
		TargetID:     targetID,
		FeedbackType: feedbackType,
		RiskLevel:    ClassifyRisk(feedbackType),
		Payload:      payload,
		Status:       StatusPending,
		ReviewNotes:  "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// LLMApprove transitions PENDING → LLM_APPROVED.
func (q *Queue) LLMApprove(notes string, now time.Time) error {
	if q.Status != StatusPending {
		return &InvalidTransitionError{ID: q.ID, Status: q.Status, Action: ActionLLMApprove}
	}
	q.Status = StatusLLMApproved
	q.ReviewNotes = notes
	q.UpdatedAt = now
	return nil
}

// LLMReject transitions PENDING → LLM_REJECTED. Terminal.
func (q *Queue) LLMReject(notes string, now time.Time) error {
	if q.Status != StatusPending {
		return &InvalidTransitionError{ID: q.ID, Status: q.Status, Action: ActionLLMReject}
	}
	q.Status = StatusLLMRejected
	q.ReviewNotes = notes
	q.UpdatedAt = now
	return nil
}

// HumanApprove transitions LLM_APPROVED → HUMAN_APPROVED. SAFE-risk feedback
// never enters the human stage, so approving it here is a transition error.
func (q *Queue) HumanApprove(notes string, now time.Time) error {
	if q.Status != StatusLLMApproved {
		return &InvalidTransitionError{ID: q.ID, Status: q.Status, Action: ActionHumanApprove}
	}
	if q.RiskLevel.AutoMergeable() {
		return &InvalidTransitionError{
			ID: q.ID, Status: q.Status, Action: ActionHumanApprove,
			Reason: "SAFE risk level does not require human approval",
		}
	}
	q.Status = StatusHumanApproved
	if notes != "" {
		q.ReviewNotes = notes
	}
	q.UpdatedAt = now
	return nil
}

// HumanReject transitions LLM_APPROVED → HUMAN_REJECTED. Terminal.
func (q *Queue) HumanReject(notes string, now time.Time) error {
	if q.Status != StatusLLMApproved {
		return &InvalidTransitionError{ID: q.ID, Status: q.Status, Action: ActionHumanReject}
	}
	if q.RiskLevel.AutoMergeable() {
		return &InvalidTransitionError{
			ID: q.ID, Status: q.Status, Action: ActionHumanReject,
			Reason: "SAFE risk level does not require human review",
		}
	}
	q.Status = StatusHumanRejected
	if notes != "" {
		q.ReviewNotes = notes
	}
	q.UpdatedAt = now
	return nil
}

// Merge transitions an approved feedback to MERGED. SAFE risk merges from
// LLM_APPROVED; MEDIUM and HIGH must have reached HUMAN_APPROVED first. The
// gate lives here rather than as extra states to keep the state space small.
func (q *Queue) Merge(now time.Time) error {
	if err := q.CheckMergeable(); err != nil {
		return err
	}
	q.Status = StatusMerged
	q.UpdatedAt = now
	return nil
}

// CheckMergeable validates the merge precondition without mutating the
// aggregate. The processing service calls this before running the merge
// strategy so a strategy failure leaves the row untouched.
func (q *Queue) CheckMergeable() error {
	switch q.Status {
	case StatusLLMApproved:
		if q.RiskLevel.RequiresHumanApproval() {
			return &InvalidTransitionError{
				ID: q.ID, Status: q.Status, Action: ActionMerge,
				Reason: fmt.Sprintf("%s risk level requires human approval first", q.RiskLevel),
			}
		}
		return nil
	case StatusHumanApproved:
		return nil
	default:
		return &InvalidTransitionError{ID: q.ID, Status: q.Status, Action: ActionMerge}
	}
}

// CanAutoMerge reports whether the feedback is mergeable without any human
// stage: LLM_APPROVED with SAFE risk.
func (q *Queue) CanAutoMerge() bool {
	return q.Status == StatusLLMApproved && q.RiskLevel.AutoMergeable()
}

// RequiresHumanReview reports whether the feedback is waiting on a human
// reviewer: LLM_APPROVED with MEDIUM or HIGH risk.
func (q *Queue) RequiresHumanReview() bool {
	return q.Status == StatusLLMApproved && q.RiskLevel.RequiresHumanApproval()
}

// IsTerminal reports whether no further transition is possible.
func (q *Queue) IsTerminal() bool {
	return q.Status.IsTerminal()
}
