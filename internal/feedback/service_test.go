package feedback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc  *Service
	repo *fakeRepo
	cat  *fakeCatalog
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	cat := newFakeCatalog()
	repo := newFakeRepo()
	registry, err := NewDefaultRegistry(cat, fixedClock{testTime})
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &serviceFixture{
		svc:  NewService(repo, registry, fixedClock{testTime}, logger),
		repo: repo,
		cat:  cat,
	}
}

func (f *serviceFixture) submitRuleAdd(t *testing.T, conventionID int64) Snapshot {
	t.Helper()
	snap, err := f.svc.Submit(context.Background(), SubmitRequest{
		TargetType:   TargetCodingRule,
		FeedbackType: TypeAdd,
		Payload:      fmt.Sprintf(`{"convention_id":%d,"rule_name":"no-setter-injection"}`, conventionID),
	})
	require.NoError(t, err)
	return snap
}

func (f *serviceFixture) submitRuleModify(t *testing.T, ruleID int64) Snapshot {
	t.Helper()
	snap, err := f.svc.Submit(context.Background(), SubmitRequest{
		TargetType:   TargetCodingRule,
		TargetID:     &ruleID,
		FeedbackType: TypeModify,
		Payload:      fmt.Sprintf(`{"coding_rule_id":%d,"severity":"ERROR"}`, ruleID),
	})
	require.NoError(t, err)
	return snap
}

func TestServiceSubmit(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()

	snap := f.submitRuleAdd(t, conventionID)
	assert.NotZero(t, snap.ID)
	assert.Equal(t, StatusPending, snap.Status)
	assert.Equal(t, RiskSafe, snap.RiskLevel)

	stored, err := f.repo.FindByID(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}

func TestServiceSubmitRejectsInvalidPayload(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitRequest{
		TargetType:   TargetCodingRule,
		FeedbackType: TypeAdd,
		Payload:      `{"rule_name":"x"}`,
	})
	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Empty(t, f.repo.rows, "rejected submission must not create a row")
}

func TestServiceSubmitRejectsMissingReference(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitRequest{
		TargetType:   TargetCodingRule,
		FeedbackType: TypeAdd,
		Payload:      `{"convention_id":999,"rule_name":"x"}`,
	})
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Empty(t, f.repo.rows)
}

func TestServiceSubmitUnknownTargetType(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitRequest{
		TargetType:   TargetType("WIDGET"),
		FeedbackType: TypeAdd,
		Payload:      `{}`,
	})
	var unsupported *UnsupportedTargetTypeError
	assert.ErrorAs(t, err, &unsupported)
}

// SAFE path: submit, LLM approve, merge. No human stage.
func TestServiceSafeAddLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	snap := f.submitRuleAdd(t, conventionID)

	snap, err := f.svc.ApplyAction(context.Background(), snap.ID, ActionLLMApprove, "rule is consistent")
	require.NoError(t, err)
	assert.Equal(t, StatusLLMApproved, snap.Status)
	assert.Equal(t, "rule is consistent", snap.ReviewNotes)

	snap, err = f.svc.Merge(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMerged, snap.Status)

	// The rule now exists in the catalog.
	found := false
	for _, r := range f.cat.rules {
		if r.RuleName == "no-setter-injection" {
			found = true
			assert.Equal(t, conventionID, r.ConventionID)
		}
	}
	assert.True(t, found)
}

// MEDIUM path: human approval gates the merge.
func TestServiceModifyLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ruleID := f.cat.seedRule()
	snap := f.submitRuleModify(t, ruleID)
	require.Equal(t, RiskMedium, snap.RiskLevel)

	snap, err := f.svc.ApplyAction(context.Background(), snap.ID, ActionLLMApprove, "")
	require.NoError(t, err)

	// Merge before human approval is rejected.
	_, err = f.svc.Merge(context.Background(), snap.ID)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	snap, err = f.svc.ApplyAction(context.Background(), snap.ID, ActionHumanApprove, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusHumanApproved, snap.Status)

	snap, err = f.svc.Merge(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMerged, snap.Status)

	rule, err := f.cat.GetCodingRule(context.Background(), ruleID)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", rule.Severity)
}

func TestServiceHumanActionOnSafeFeedback(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	snap := f.submitRuleAdd(t, conventionID)

	_, err := f.svc.ApplyAction(context.Background(), snap.ID, ActionLLMApprove, "")
	require.NoError(t, err)

	_, err = f.svc.ApplyAction(context.Background(), snap.ID, ActionHumanApprove, "")
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	// The failed action persisted nothing.
	stored, err := f.repo.FindByID(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusLLMApproved, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestServiceMergeIsNotAnAction(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	snap := f.submitRuleAdd(t, conventionID)

	_, err := f.svc.ApplyAction(context.Background(), snap.ID, ActionMerge, "")
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Contains(t, transitionErr.Reason, "not a review action")
}

// Merge-time re-validation: the parent vanished after approval. The feedback
// stays approved and the merge can be retried once the parent is restored.
func TestServiceMergeValidationFailureIsRetryable(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	snap := f.submitRuleAdd(t, conventionID)

	_, err := f.svc.ApplyAction(context.Background(), snap.ID, ActionLLMApprove, "")
	require.NoError(t, err)

	delete(f.cat.conventions, conventionID)

	_, err = f.svc.Merge(context.Background(), snap.ID)
	var mergeErr *MergeValidationError
	require.ErrorAs(t, err, &mergeErr)
	assert.True(t, IsRetryable(err))

	stored, err := f.repo.FindByID(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusLLMApproved, stored.Status, "failed merge leaves the feedback retryable")

	// Restore the parent and retry.
	f.cat.conventions[conventionID] = true
	merged, err := f.svc.Merge(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMerged, merged.Status)
}

func TestServiceActionOnMissingFeedback(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ApplyAction(context.Background(), 404, ActionLLMApprove, "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(404), notFound.ID)

	_, err = f.svc.Merge(context.Background(), 404)
	assert.ErrorAs(t, err, &notFound)
}

func TestServiceSearch(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	ruleID := f.cat.seedRule()

	for i := 0; i < 3; i++ {
		f.submitRuleAdd(t, conventionID)
	}
	modSnap := f.submitRuleModify(t, ruleID)
	_, err := f.svc.ApplyAction(context.Background(), modSnap.ID, ActionLLMApprove, "")
	require.NoError(t, err)

	criteria, err := PendingCriteria(10, nil)
	require.NoError(t, err)
	slice, err := f.svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	assert.Len(t, slice.Content, 3)
	assert.False(t, slice.HasNext)

	criteria, err = AwaitingHumanReviewCriteria(10, nil)
	require.NoError(t, err)
	slice, err = f.svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, modSnap.ID, slice.Content[0].ID)

	// Outcome action filter.
	criteria, err = NewSliceCriteria(10, nil)
	require.NoError(t, err)
	slice, err = f.svc.Search(context.Background(), criteria.WithActions(ActionLLMApprove))
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, StatusLLMApproved, slice.Content[0].Status)
}

func TestServiceSearchPagination(t *testing.T) {
	f := newServiceFixture(t)
	conventionID := f.cat.seedConvention()
	for i := 0; i < 5; i++ {
		f.submitRuleAdd(t, conventionID)
	}

	criteria, err := NewSliceCriteria(2, nil)
	require.NoError(t, err)
	page1, err := f.svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, page1.Content, 2)
	require.True(t, page1.HasNext)
	assert.Greater(t, page1.Content[0].ID, page1.Content[1].ID, "newest first")

	cursor := page1.Content[1].ID
	criteria, err = NewSliceCriteria(2, &cursor)
	require.NoError(t, err)
	page2, err := f.svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, page2.Content, 2)

	// Pages are disjoint and strictly descending across the boundary.
	assert.Less(t, page2.Content[0].ID, page1.Content[1].ID)

	cursor = page2.Content[1].ID
	criteria, err = NewSliceCriteria(2, &cursor)
	require.NoError(t, err)
	page3, err := f.svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	assert.Len(t, page3.Content, 1)
	assert.False(t, page3.HasNext)
}

func TestServiceSearchRequiresBuiltCriteria(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Search(context.Background(), SliceCriteria{})
	assert.Error(t, err)
}
