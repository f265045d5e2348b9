package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var patchTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCodingRulePatchApply(t *testing.T) {
	rule := &CodingRule{
		RuleName:    "no-wildcard-imports",
		Description: "original",
		Severity:    "WARN",
	}

	CodingRulePatch{
		Severity:    strp("ERROR"),
		Description: strp(""),
	}.Apply(rule, patchTime)

	assert.Equal(t, "no-wildcard-imports", rule.RuleName, "nil field leaves value alone")
	assert.Equal(t, "ERROR", rule.Severity)
	assert.Equal(t, "", rule.Description, "pointer to zero clears the field")
	assert.Equal(t, patchTime, rule.UpdatedAt)
}

func TestClassTemplatePatchApply(t *testing.T) {
	tmpl := &ClassTemplate{ClassName: "OrderService", TemplateBody: "class {{name}} {}"}

	ClassTemplatePatch{ClassName: strp("OrderCommandService")}.Apply(tmpl, patchTime)

	assert.Equal(t, "OrderCommandService", tmpl.ClassName)
	assert.Equal(t, "class {{name}} {}", tmpl.TemplateBody)
}

func TestRuleExamplePatchApply(t *testing.T) {
	ex := &RuleExample{Title: "bad", IsGood: false}

	RuleExamplePatch{IsGood: boolp(true)}.Apply(ex, patchTime)
	assert.True(t, ex.IsGood)
	assert.Equal(t, "bad", ex.Title)

	// Empty patch still bumps the timestamp.
	before := ex.IsGood
	RuleExamplePatch{}.Apply(ex, patchTime.Add(time.Hour))
	assert.Equal(t, before, ex.IsGood)
	assert.Equal(t, patchTime.Add(time.Hour), ex.UpdatedAt)
}

func TestSoftDelete(t *testing.T) {
	rule := &CodingRule{ID: 1}
	rule.SoftDelete(patchTime)

	assert.True(t, rule.Deleted)
	if assert.NotNil(t, rule.DeletedAt) {
		assert.Equal(t, patchTime, *rule.DeletedAt)
	}
	assert.Equal(t, patchTime, rule.UpdatedAt)
}
