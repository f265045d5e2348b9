package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SubmitRequest is the inbound shape for proposing a change.
type SubmitRequest struct {
	TargetType   TargetType
	TargetID     *int64
	FeedbackType Type
	Payload      string
}

// Service orchestrates the feedback lifecycle: submission, the four review
// actions, merge, and slice queries. Each operation is a single synchronous
// load-validate-persist unit of work; races between writers are resolved by
// the repository's optimistic version check, not by in-process locking.
type Service struct {
	repo     Repository
	registry *Registry
	clock    Clock
	logger   *slog.Logger
}

// NewService builds the processing service.
func NewService(repo Repository, registry *Registry, clock Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		registry: registry,
		clock:    clock,
		logger:   logger.With("component", "feedback"),
	}
}

// Submit validates a proposed change and persists it as a PENDING feedback.
// Validation failure means no row is created.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Snapshot, error) {
	log := s.opLogger("submit", "target_type", string(req.TargetType), "feedback_type", string(req.FeedbackType))

	validator, err := s.registry.PayloadValidator(req.TargetType)
	if err != nil {
		return Snapshot{}, err
	}
	if err := validator.Validate(ctx, req); err != nil {
		log.Warn("submission rejected", "error", err)
		return Snapshot{}, err
	}

	q, err := NewQueue(req.TargetType, req.TargetID, req.FeedbackType, req.Payload, s.clock.Now())
	if err != nil {
		return Snapshot{}, &PayloadError{TargetType: req.TargetType, FeedbackType: req.FeedbackType, Reason: err.Error()}
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return Snapshot{}, fmt.Errorf("persist feedback: %w", err)
	}

	log.Info("feedback submitted", "feedback_id", q.ID, "risk_level", string(q.RiskLevel))
	return snapshotOf(q), nil
}

// ApplyAction runs one of the four review actions against a feedback. The
// aggregate enforces the transition table; an illegal action fails with
// InvalidTransitionError and nothing is persisted. Merge is not an action —
// use Merge.
func (s *Service) ApplyAction(ctx context.Context, id int64, action Action, notes string) (Snapshot, error) {
	log := s.opLogger("apply_action", "feedback_id", id, "action", string(action))

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	switch action {
	case ActionLLMApprove:
		err = q.LLMApprove(notes, s.clock.Now())
	case ActionLLMReject:
		err = q.LLMReject(notes, s.clock.Now())
	case ActionHumanApprove:
		err = q.HumanApprove(notes, s.clock.Now())
	case ActionHumanReject:
		err = q.HumanReject(notes, s.clock.Now())
	default:
		err = &InvalidTransitionError{ID: id, Status: q.Status, Action: action, Reason: "not a review action"}
	}
	if err != nil {
		log.Warn("action rejected", "status", string(q.Status), "error", err)
		return Snapshot{}, err
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return Snapshot{}, fmt.Errorf("persist feedback %d: %w", id, err)
	}
	log.Info("action applied", "status", string(q.Status))
	return snapshotOf(q), nil
}

// Merge applies an approved feedback to its target aggregate and marks it
// MERGED. Ordering is strict: merge-time validation, then the strategy, and
// only after both succeed the status transition. A validator or strategy
// failure leaves the feedback row untouched and retryable.
func (s *Service) Merge(ctx context.Context, id int64) (Snapshot, error) {
	log := s.opLogger("merge", "feedback_id", id)

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := q.CheckMergeable(); err != nil {
		log.Warn("merge rejected", "status", string(q.Status), "risk_level", string(q.RiskLevel), "error", err)
		return Snapshot{}, err
	}

	mergeValidator, err := s.registry.MergeValidator(q.TargetType)
	if err != nil {
		return Snapshot{}, err
	}
	if err := mergeValidator.Validate(ctx, q); err != nil {
		log.Warn("merge validation failed", "error", err)
		return Snapshot{}, err
	}

	strategy, err := s.registry.MergeStrategy(q.TargetType)
	if err != nil {
		return Snapshot{}, err
	}
	targetID, err := strategy.Merge(ctx, q)
	if err != nil {
		log.Error("merge strategy failed", "error", err)
		return Snapshot{}, fmt.Errorf("apply %s merge: %w", q.TargetType, err)
	}

	if err := q.Merge(s.clock.Now()); err != nil {
		return Snapshot{}, err
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return Snapshot{}, fmt.Errorf("persist feedback %d: %w", id, err)
	}

	log.Info("feedback merged", "target_type", string(q.TargetType), "target_id", targetID)
	return snapshotOf(q), nil
}

// Search returns one cursor page of feedback snapshots matching the criteria.
func (s *Service) Search(ctx context.Context, criteria SliceCriteria) (Slice, error) {
	if criteria.Size() == 0 {
		return Slice{}, fmt.Errorf("slice criteria must be built with NewSliceCriteria")
	}
	rows, err := s.repo.FindSlice(ctx, criteria)
	if err != nil {
		return Slice{}, fmt.Errorf("query feedback slice: %w", err)
	}
	return newSlice(rows, criteria.Size()), nil
}

// opLogger tags a logger with a fresh operation id so concurrent requests
// can be told apart in the logs.
func (s *Service) opLogger(op string, args ...any) *slog.Logger {
	return s.logger.With(append([]any{"op", op, "op_id", uuid.NewString()}, args...)...)
}
