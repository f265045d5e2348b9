package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by store lookups for absent or soft-deleted rows.
var ErrNotFound = errors.New("catalog: not found")

// ConventionStore exposes the parent-container checks the feedback workflow
// needs for CODING_RULE payloads. Conventions themselves are managed by the
// plain CRUD services.
type ConventionStore interface {
	ConventionExists(ctx context.Context, id int64) (bool, error)
}

// PackageStructureStore exposes the parent-container checks for
// CLASS_TEMPLATE payloads.
type PackageStructureStore interface {
	PackageStructureExists(ctx context.Context, id int64) (bool, error)
}

// CodingRuleStore is the persistence port for coding rules. The merge
// workflow and the CRUD path share it so invariant enforcement never
// diverges.
type CodingRuleStore interface {
	GetCodingRule(ctx context.Context, id int64) (*CodingRule, error)
	CodingRuleExists(ctx context.Context, id int64) (bool, error)
	CreateCodingRule(ctx context.Context, rule *CodingRule) error
	UpdateCodingRule(ctx context.Context, rule *CodingRule) error
}

// ClassTemplateStore is the persistence port for class templates.
type ClassTemplateStore interface {
	GetClassTemplate(ctx context.Context, id int64) (*ClassTemplate, error)
	ClassTemplateExists(ctx context.Context, id int64) (bool, error)
	CreateClassTemplate(ctx context.Context, tmpl *ClassTemplate) error
	UpdateClassTemplate(ctx context.Context, tmpl *ClassTemplate) error
}

// RuleExampleStore is the persistence port for rule examples.
type RuleExampleStore interface {
	GetRuleExample(ctx context.Context, id int64) (*RuleExample, error)
	RuleExampleExists(ctx context.Context, id int64) (bool, error)
	CreateRuleExample(ctx context.Context, ex *RuleExample) error
	UpdateRuleExample(ctx context.Context, ex *RuleExample) error
}

// Store bundles every catalog port. Storage backends implement the whole
// bundle; the feedback registry consumes the narrow interfaces.
type Store interface {
	ConventionStore
	PackageStructureStore
	CodingRuleStore
	ClassTemplateStore
	RuleExampleStore
}
