package feedback

import (
	"context"
	"time"
)

// Clock supplies timestamps for state transitions. Tests substitute a fixed
// clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Repository is the persistence port for the feedback queue. Implementations
// must enforce optimistic concurrency on Update: a stale Version loses the
// race and surfaces ErrConcurrentModification.
type Repository interface {
	// Create persists a new feedback and assigns its ID and initial version.
	Create(ctx context.Context, q *Queue) error

	// Update persists a mutated feedback. The stored row's version must match
	// q.Version; on success the version is bumped in place.
	Update(ctx context.Context, q *Queue) error

	// FindByID loads one feedback. Returns *NotFoundError when absent.
	FindByID(ctx context.Context, id int64) (*Queue, error)

	// FindSlice returns up to criteria.Size()+1 rows matching the filters,
	// ordered by descending id, strictly below the cursor when one is set.
	// The extra row lets the caller compute hasNext without a count query.
	FindSlice(ctx context.Context, criteria SliceCriteria) ([]*Queue, error)
}

// Snapshot is the immutable view of a feedback returned across the service
// boundary.
type Snapshot struct {
	ID           int64      `json:"id"`
	TargetType   TargetType `json:"target_type"`
	TargetID     *int64     `json:"target_id,omitempty"`
	FeedbackType Type       `json:"feedback_type"`
	RiskLevel    RiskLevel  `json:"risk_level"`
	Payload      string     `json:"payload"`
	Status       Status     `json:"status"`
	ReviewNotes  string     `json:"review_notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func snapshotOf(q *Queue) Snapshot {
	return Snapshot{
		ID:           q.ID,
		TargetType:   q.TargetType,
		TargetID:     q.TargetID,
		FeedbackType: q.FeedbackType,
		RiskLevel:    q.RiskLevel,
		Payload:      q.Payload,
		Status:       q.Status,
		ReviewNotes:  q.ReviewNotes,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}
