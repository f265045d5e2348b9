package storage

import "github.com/archmeta/archmeta-go/internal/feedback"

// buildSliceQuery assembles the filtered cursor query in sqlx.In form:
// every IN clause is written as a single `?` bound to a slice argument, to be
// expanded and rebound by the caller. Ordering is descending id so pages are
// stable under concurrent inserts, and the cursor is exclusive.
func buildSliceQuery(c feedback.SliceCriteria) (string, []interface{}) {
	query := `SELECT * FROM feedback_queue WHERE 1=1`
	var args []interface{}

	if len(c.Statuses) > 0 {
		query += ` AND status IN (?)`
		args = append(args, c.Statuses)
	}
	if outcome := c.OutcomeStatuses(); len(outcome) > 0 {
		query += ` AND status IN (?)`
		args = append(args, outcome)
	}
	if len(c.TargetTypes) > 0 {
		query += ` AND target_type IN (?)`
		args = append(args, c.TargetTypes)
	}
	if len(c.FeedbackTypes) > 0 {
		query += ` AND feedback_type IN (?)`
		args = append(args, c.FeedbackTypes)
	}
	if len(c.RiskLevels) > 0 {
		query += ` AND risk_level IN (?)`
		args = append(args, c.RiskLevels)
	}
	if c.Cursor != nil {
		query += ` AND id < ?`
		args = append(args, *c.Cursor)
	}

	// One extra row lets the caller compute hasNext without a count query.
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, c.Size()+1)

	return query, args
}
