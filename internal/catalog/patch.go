package catalog

import "time"

// Patch structs describe partial updates. A nil field means "leave as is"; a
// pointer to the zero value means "set to empty". The two are never
// conflated.

// CodingRulePatch is a partial update to a CodingRule.
type CodingRulePatch struct {
	RuleName    *string
	Description *string
	Severity    *string
	Rationale   *string
}

// Apply overwrites only the fields the patch sets.
func (p CodingRulePatch) Apply(r *CodingRule, now time.Time) {
	if p.RuleName != nil {
		r.RuleName = *p.RuleName
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Severity != nil {
		r.Severity = *p.Severity
	}
	if p.Rationale != nil {
		r.Rationale = *p.Rationale
	}
	r.UpdatedAt = now
}

// ClassTemplatePatch is a partial update to a ClassTemplate.
type ClassTemplatePatch struct {
	ClassName    *string
	TemplateBody *string
	Description  *string
}

// Apply overwrites only the fields the patch sets.
func (p ClassTemplatePatch) Apply(t *ClassTemplate, now time.Time) {
	if p.ClassName != nil {
		t.ClassName = *p.ClassName
	}
	if p.TemplateBody != nil {
		t.TemplateBody = *p.TemplateBody
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	t.UpdatedAt = now
}

// RuleExamplePatch is a partial update to a RuleExample.
type RuleExamplePatch struct {
	Title       *string
	Code        *string
	IsGood      *bool
	Explanation *string
}

// Apply overwrites only the fields the patch sets.
func (p RuleExamplePatch) Apply(e *RuleExample, now time.Time) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Code != nil {
		e.Code = *p.Code
	}
	if p.IsGood != nil {
		e.IsGood = *p.IsGood
	}
	if p.Explanation != nil {
		e.Explanation = *p.Explanation
	}
	e.UpdatedAt = now
}
