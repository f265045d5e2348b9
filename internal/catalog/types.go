// Package catalog holds the metadata aggregates that feedback merges apply
// to: coding rules, class templates, and rule examples, plus the parent
// containers their payloads reference. The plain CRUD services for these
// entities live behind the Store interfaces; the merge workflow shares the
// same persistence path so both enforce the same invariants.
package catalog

import "time"

// CodingRule is a single coding convention rule under a Convention.
type CodingRule struct {
	ID           int64      `db:"id"`
	ConventionID int64      `db:"convention_id"`
	RuleName     string     `db:"rule_name"`
	Description  string     `db:"description"`
	Severity     string     `db:"severity"`
	Rationale    string     `db:"rationale"`
	Deleted      bool       `db:"deleted"`
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// SoftDelete marks the rule deleted without removing the row.
func (r *CodingRule) SoftDelete(now time.Time) {
	r.Deleted = true
	r.DeletedAt = &now
	r.UpdatedAt = now
}

// ClassTemplate is a code template attached to a PackageStructure slot.
type ClassTemplate struct {
	ID                 int64      `db:"id"`
	PackageStructureID int64      `db:"package_structure_id"`
	ClassName          string     `db:"class_name"`
	TemplateBody       string     `db:"template_body"`
	Description        string     `db:"description"`
	Deleted            bool       `db:"deleted"`
	DeletedAt          *time.Time `db:"deleted_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// SoftDelete marks the template deleted without removing the row.
func (t *ClassTemplate) SoftDelete(now time.Time) {
	t.Deleted = true
	t.DeletedAt = &now
	t.UpdatedAt = now
}

// RuleExample is a good/bad code example illustrating a CodingRule.
type RuleExample struct {
	ID           int64      `db:"id"`
	CodingRuleID int64      `db:"coding_rule_id"`
	Title        string     `db:"title"`
	Code         string     `db:"code"`
	IsGood       bool       `db:"is_good"`
	Explanation  string     `db:"explanation"`
	Deleted      bool       `db:"deleted"`
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// SoftDelete marks the example deleted without removing the row.
func (e *RuleExample) SoftDelete(now time.Time) {
	e.Deleted = true
	e.DeletedAt = &now
	e.UpdatedAt = now
}
