package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archmeta/archmeta-go/internal/feedback"
)

func TestBuildSliceQueryUnfiltered(t *testing.T) {
	c, err := feedback.NewSliceCriteria(20, nil)
	require.NoError(t, err)

	query, args := buildSliceQuery(c)
	assert.Equal(t, `SELECT * FROM feedback_queue WHERE 1=1 ORDER BY id DESC LIMIT ?`, query)
	require.Len(t, args, 1)
	assert.Equal(t, 21, args[0], "limit overfetches one row for hasNext")
}

func TestBuildSliceQueryFilters(t *testing.T) {
	c, err := feedback.NewSliceCriteria(10, nil)
	require.NoError(t, err)
	c = c.WithStatuses(feedback.StatusPending).
		WithTargetTypes(feedback.TargetCodingRule, feedback.TargetRuleExample).
		WithFeedbackTypes(feedback.TypeAdd).
		WithRiskLevels(feedback.RiskSafe)

	query, args := buildSliceQuery(c)
	assert.Contains(t, query, `AND status IN (?)`)
	assert.Contains(t, query, `AND target_type IN (?)`)
	assert.Contains(t, query, `AND feedback_type IN (?)`)
	assert.Contains(t, query, `AND risk_level IN (?)`)
	assert.NotContains(t, query, `id <`)

	// Four slice args plus the limit.
	require.Len(t, args, 5)
	assert.Equal(t, []feedback.Status{feedback.StatusPending}, args[0])
	assert.Equal(t, 11, args[4])
}

func TestBuildSliceQueryCursor(t *testing.T) {
	cursor := int64(57)
	c, err := feedback.NewSliceCriteria(5, &cursor)
	require.NoError(t, err)

	query, args := buildSliceQuery(c)
	assert.Contains(t, query, `AND id < ?`)
	require.Len(t, args, 2)
	assert.Equal(t, int64(57), args[0])
}

func TestBuildSliceQueryActionFilter(t *testing.T) {
	c, err := feedback.NewSliceCriteria(5, nil)
	require.NoError(t, err)
	c = c.WithActions(feedback.ActionHumanReject)

	query, args := buildSliceQuery(c)
	assert.Contains(t, query, `AND status IN (?)`)
	require.Len(t, args, 2)
	assert.Equal(t, []feedback.Status{feedback.StatusHumanRejected}, args[0])
}
