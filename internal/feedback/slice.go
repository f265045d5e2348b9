package feedback

import (
	"fmt"
	"strconv"
)

const (
	// DefaultSliceSize is used when callers do not specify a page size.
	DefaultSliceSize = 20
	// MaxSliceSize bounds a single slice request.
	MaxSliceSize = 100
)

// SliceCriteria is the composable filter set for cursor-paginated feedback
// queries. Zero-length filter slices mean "no filter on that dimension".
// Cursor is exclusive: only rows with id < cursor are returned.
type SliceCriteria struct {
	Statuses      []Status
	TargetTypes   []TargetType
	FeedbackTypes []Type
	RiskLevels    []RiskLevel
	Actions       []Action

	Cursor *int64
	size   int
}

// NewSliceCriteria validates the page size bound. A size of 0 selects the
// default; anything else outside 1..100 is rejected at the boundary rather
// than clamped, so callers can assert the exact failure.
func NewSliceCriteria(size int, cursor *int64) (SliceCriteria, error) {
	if size == 0 {
		size = DefaultSliceSize
	}
	if size < 1 || size > MaxSliceSize {
		return SliceCriteria{}, fmt.Errorf("slice size %d out of range [1, %d]", size, MaxSliceSize)
	}
	return SliceCriteria{Cursor: cursor, size: size}, nil
}

// Size returns the validated page size.
func (c SliceCriteria) Size() int { return c.size }

// WithStatuses adds a status filter.
func (c SliceCriteria) WithStatuses(statuses ...Status) SliceCriteria {
	c.Statuses = statuses
	return c
}

// WithTargetTypes adds a target type filter.
func (c SliceCriteria) WithTargetTypes(types ...TargetType) SliceCriteria {
	c.TargetTypes = types
	return c
}

// WithFeedbackTypes adds a feedback type filter.
func (c SliceCriteria) WithFeedbackTypes(types ...Type) SliceCriteria {
	c.FeedbackTypes = types
	return c
}

// WithRiskLevels adds a risk level filter.
func (c SliceCriteria) WithRiskLevels(levels ...RiskLevel) SliceCriteria {
	c.RiskLevels = levels
	return c
}

// WithActions filters by review outcome: rows whose current status is the
// result of one of the given actions.
func (c SliceCriteria) WithActions(actions ...Action) SliceCriteria {
	c.Actions = actions
	return c
}

// OutcomeStatuses translates the action filter into the statuses those
// actions produce. Repositories apply it as an additional status constraint.
func (c SliceCriteria) OutcomeStatuses() []Status {
	if len(c.Actions) == 0 {
		return nil
	}
	out := make([]Status, 0, len(c.Actions))
	for _, a := range c.Actions {
		out = append(out, a.OutcomeStatus())
	}
	return out
}

// PendingCriteria selects feedbacks awaiting LLM review.
func PendingCriteria(size int, cursor *int64) (SliceCriteria, error) {
	c, err := NewSliceCriteria(size, cursor)
	if err != nil {
		return SliceCriteria{}, err
	}
	return c.WithStatuses(StatusPending), nil
}

// AutoMergeableCriteria selects SAFE feedbacks that cleared LLM review and
// can merge without a human stage.
func AutoMergeableCriteria(size int, cursor *int64) (SliceCriteria, error) {
	c, err := NewSliceCriteria(size, cursor)
	if err != nil {
		return SliceCriteria{}, err
	}
	return c.WithStatuses(StatusLLMApproved).WithRiskLevels(RiskSafe), nil
}

// AwaitingHumanReviewCriteria selects feedbacks blocked on a human reviewer.
func AwaitingHumanReviewCriteria(size int, cursor *int64) (SliceCriteria, error) {
	c, err := NewSliceCriteria(size, cursor)
	if err != nil {
		return SliceCriteria{}, err
	}
	return c.WithStatuses(StatusLLMApproved).WithRiskLevels(RiskMedium, RiskHigh), nil
}

// Slice is one cursor page of feedback snapshots. No total count is computed;
// HasNext comes from overfetching one row.
type Slice struct {
	Content    []Snapshot `json:"content"`
	Size       int        `json:"size"`
	HasNext    bool       `json:"has_next"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// newSlice trims the overfetched row set down to the requested size and
// derives the continuation cursor from the last returned row.
func newSlice(rows []*Queue, size int) Slice {
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	content := make([]Snapshot, 0, len(rows))
	for _, q := range rows {
		content = append(content, snapshotOf(q))
	}
	s := Slice{Content: content, Size: size, HasNext: hasNext}
	if hasNext {
		s.NextCursor = strconv.FormatInt(rows[len(rows)-1].ID, 10)
	}
	return s
}
