package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload shapes, one pair per target type. ADD payloads carry every field a
// new aggregate needs plus its parent id; MODIFY payloads carry the target id
// and pointer fields where nil means "no change". DELETE needs no payload —
// the queue's target id identifies the row.

// CodingRuleAddPayload creates a new coding rule under a convention.
type CodingRuleAddPayload struct {
	ConventionID int64  `json:"convention_id"`
	RuleName     string `json:"rule_name"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	Rationale    string `json:"rationale"`
}

func (p *CodingRuleAddPayload) validate() error {
	if p.ConventionID <= 0 {
		return fmt.Errorf("convention_id is required")
	}
	if p.RuleName == "" {
		return fmt.Errorf("rule_name is required")
	}
	return nil
}

// CodingRuleModifyPayload patches an existing coding rule.
type CodingRuleModifyPayload struct {
	CodingRuleID int64   `json:"coding_rule_id"`
	RuleName     *string `json:"rule_name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Severity     *string `json:"severity,omitempty"`
	Rationale    *string `json:"rationale,omitempty"`
}

func (p *CodingRuleModifyPayload) validate() error {
	if p.CodingRuleID <= 0 {
		return fmt.Errorf("coding_rule_id is required")
	}
	return nil
}

// ClassTemplateAddPayload creates a new class template under a package
// structure.
type ClassTemplateAddPayload struct {
	PackageStructureID int64  `json:"package_structure_id"`
	ClassName          string `json:"class_name"`
	TemplateBody       string `json:"template_body"`
	Description        string `json:"description"`
}

func (p *ClassTemplateAddPayload) validate() error {
	if p.PackageStructureID <= 0 {
		return fmt.Errorf("package_structure_id is required")
	}
	if p.ClassName == "" {
		return fmt.Errorf("class_name is required")
	}
	return nil
}

// ClassTemplateModifyPayload patches an existing class template.
type ClassTemplateModifyPayload struct {
	ClassTemplateID int64   `json:"class_template_id"`
	ClassName       *string `json:"class_name,omitempty"`
	TemplateBody    *string `json:"template_body,omitempty"`
	Description     *string `json:"description,omitempty"`
}

func (p *ClassTemplateModifyPayload) validate() error {
	if p.ClassTemplateID <= 0 {
		return fmt.Errorf("class_template_id is required")
	}
	return nil
}

// RuleExampleAddPayload creates a new example under a coding rule.
type RuleExampleAddPayload struct {
	CodingRuleID int64  `json:"coding_rule_id"`
	Title        string `json:"title"`
	Code         string `json:"code"`
	IsGood       bool   `json:"is_good"`
	Explanation  string `json:"explanation"`
}

func (p *RuleExampleAddPayload) validate() error {
	if p.CodingRuleID <= 0 {
		return fmt.Errorf("coding_rule_id is required")
	}
	if p.Code == "" {
		return fmt.Errorf("code is required")
	}
	return nil
}

// RuleExampleModifyPayload patches an existing rule example.
type RuleExampleModifyPayload struct {
	RuleExampleID int64   `json:"rule_example_id"`
	Title         *string `json:"title,omitempty"`
	Code          *string `json:"code,omitempty"`
	IsGood        *bool   `json:"is_good,omitempty"`
	Explanation   *string `json:"explanation,omitempty"`
}

func (p *RuleExampleModifyPayload) validate() error {
	if p.RuleExampleID <= 0 {
		return fmt.Errorf("rule_example_id is required")
	}
	return nil
}

type shaped interface {
	validate() error
}

// parsePayload decodes and shape-checks one payload. Unknown JSON fields are
// rejected so a typo'd field name fails at submission instead of silently
// dropping data.
func parsePayload[P shaped](targetType TargetType, feedbackType Type, raw string, out P) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &PayloadError{
			TargetType:   targetType,
			FeedbackType: feedbackType,
			Reason:       fmt.Sprintf("malformed payload: %v", err),
		}
	}
	if err := out.validate(); err != nil {
		return &PayloadError{TargetType: targetType, FeedbackType: feedbackType, Reason: err.Error()}
	}
	return nil
}
