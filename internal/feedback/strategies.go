package feedback

import (
	"context"
	"fmt"

	"github.com/archmeta/archmeta-go/internal/catalog"
)

// MergeStrategy applies an approved feedback's payload to the real target
// aggregate. Strategies only touch the target's persistence boundary; marking
// the feedback MERGED stays with the processing service so "apply the change"
// and "mark reviewed" remain two independently testable steps.
//
// Merge returns the id of the created or mutated target row.
type MergeStrategy interface {
	TargetType() TargetType
	Merge(ctx context.Context, q *Queue) (int64, error)
}

// codingRuleMergeStrategy applies CODING_RULE feedback.
type codingRuleMergeStrategy struct {
	rules catalog.CodingRuleStore
	clock Clock
}

// NewCodingRuleMergeStrategy wires the CODING_RULE merge strategy.
func NewCodingRuleMergeStrategy(rules catalog.CodingRuleStore, clock Clock) MergeStrategy {
	return &codingRuleMergeStrategy{rules: rules, clock: clock}
}

func (s *codingRuleMergeStrategy) TargetType() TargetType { return TargetCodingRule }

func (s *codingRuleMergeStrategy) Merge(ctx context.Context, q *Queue) (int64, error) {
	now := s.clock.Now()
	switch q.FeedbackType {
	case TypeAdd:
		var p CodingRuleAddPayload
		if err := parsePayload(TargetCodingRule, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		rule := &catalog.CodingRule{
			ConventionID: p.ConventionID,
			RuleName:     p.RuleName,
			Description:  p.Description,
			Severity:     p.Severity,
			Rationale:    p.Rationale,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.rules.CreateCodingRule(ctx, rule); err != nil {
			return 0, fmt.Errorf("create coding rule: %w", err)
		}
		return rule.ID, nil
	case TypeModify:
		var p CodingRuleModifyPayload
		if err := parsePayload(TargetCodingRule, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		rule, err := s.rules.GetCodingRule(ctx, p.CodingRuleID)
		if err != nil {
			return 0, fmt.Errorf("load coding rule %d: %w", p.CodingRuleID, err)
		}
		patch := catalog.CodingRulePatch{
			RuleName:    p.RuleName,
			Description: p.Description,
			Severity:    p.Severity,
			Rationale:   p.Rationale,
		}
		patch.Apply(rule, now)
		if err := s.rules.UpdateCodingRule(ctx, rule); err != nil {
			return 0, fmt.Errorf("update coding rule %d: %w", rule.ID, err)
		}
		return rule.ID, nil
	case TypeDelete:
		rule, err := s.rules.GetCodingRule(ctx, *q.TargetID)
		if err != nil {
			return 0, fmt.Errorf("load coding rule %d: %w", *q.TargetID, err)
		}
		rule.SoftDelete(now)
		if err := s.rules.UpdateCodingRule(ctx, rule); err != nil {
			return 0, fmt.Errorf("delete coding rule %d: %w", rule.ID, err)
		}
		return rule.ID, nil
	default:
		return 0, fmt.Errorf("unsupported feedback type: %s", q.FeedbackType)
	}
}

// classTemplateMergeStrategy applies CLASS_TEMPLATE feedback.
type classTemplateMergeStrategy struct {
	templates catalog.ClassTemplateStore
	clock     Clock
}

// NewClassTemplateMergeStrategy wires the CLASS_TEMPLATE merge strategy.
func NewClassTemplateMergeStrategy(templates catalog.ClassTemplateStore, clock Clock) MergeStrategy {
	return &classTemplateMergeStrategy{templates: templates, clock: clock}
}

func (s *classTemplateMergeStrategy) TargetType() TargetType { return TargetClassTemplate }

func (s *classTemplateMergeStrategy) Merge(ctx context.Context, q *Queue) (int64, error) {
	now := s.clock.Now()
	switch q.FeedbackType {
	case TypeAdd:
		var p ClassTemplateAddPayload
		if err := parsePayload(TargetClassTemplate, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		tmpl := &catalog.ClassTemplate{
			PackageStructureID: p.PackageStructureID,
			ClassName:          p.ClassName,
			TemplateBody:       p.TemplateBody,
			Description:        p.Description,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.templates.CreateClassTemplate(ctx, tmpl); err != nil {
			return 0, fmt.Errorf("create class template: %w", err)
		}
		return tmpl.ID, nil
	case TypeModify:
		var p ClassTemplateModifyPayload
		if err := parsePayload(TargetClassTemplate, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		tmpl, err := s.templates.GetClassTemplate(ctx, p.ClassTemplateID)
		if err != nil {
			return 0, fmt.Errorf("load class template %d: %w", p.ClassTemplateID, err)
		}
		patch := catalog.ClassTemplatePatch{
			ClassName:    p.ClassName,
			TemplateBody: p.TemplateBody,
			Description:  p.Description,
		}
		patch.Apply(tmpl, now)
		if err := s.templates.UpdateClassTemplate(ctx, tmpl); err != nil {
			return 0, fmt.Errorf("update class template %d: %w", tmpl.ID, err)
		}
		return tmpl.ID, nil
	case TypeDelete:
		tmpl, err := s.templates.GetClassTemplate(ctx, *q.TargetID)
		if err != nil {
			return 0, fmt.Errorf("load class template %d: %w", *q.TargetID, err)
		}
		tmpl.SoftDelete(now)
		if err := s.templates.UpdateClassTemplate(ctx, tmpl); err != nil {
			return 0, fmt.Errorf("delete class template %d: %w", tmpl.ID, err)
		}
		return tmpl.ID, nil
	default:
		return 0, fmt.Errorf("unsupported feedback type: %s", q.FeedbackType)
	}
}

// ruleExampleMergeStrategy applies RULE_EXAMPLE feedback.
type ruleExampleMergeStrategy struct {
	examples catalog.RuleExampleStore
	clock    Clock
}

// NewRuleExampleMergeStrategy wires the RULE_EXAMPLE merge strategy.
func NewRuleExampleMergeStrategy(examples catalog.RuleExampleStore, clock Clock) MergeStrategy {
	return &ruleExampleMergeStrategy{examples: examples, clock: clock}
}

func (s *ruleExampleMergeStrategy) TargetType() TargetType { return TargetRuleExample }

func (s *ruleExampleMergeStrategy) Merge(ctx context.Context, q *Queue) (int64, error) {
	now := s.clock.Now()
	switch q.FeedbackType {
	case TypeAdd:
		var p RuleExampleAddPayload
		if err := parsePayload(TargetRuleExample, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		ex := &catalog.RuleExample{
			CodingRuleID: p.CodingRuleID,
			Title:        p.Title,
			Code:         p.Code,
			IsGood:       p.IsGood,
			Explanation:  p.Explanation,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.examples.CreateRuleExample(ctx, ex); err != nil {
			return 0, fmt.Errorf("create rule example: %w", err)
		}
		return ex.ID, nil
	case TypeModify:
		var p RuleExampleModifyPayload
		if err := parsePayload(TargetRuleExample, q.FeedbackType, q.Payload, &p); err != nil {
			return 0, err
		}
		ex, err := s.examples.GetRuleExample(ctx, p.RuleExampleID)
		if err != nil {
			return 0, fmt.Errorf("load rule example %d: %w", p.RuleExampleID, err)
		}
		patch := catalog.RuleExamplePatch{
			Title:       p.Title,
			Code:        p.Code,
			IsGood:      p.IsGood,
			Explanation: p.Explanation,
		}
		patch.Apply(ex, now)
		if err := s.examples.UpdateRuleExample(ctx, ex); err != nil {
			return 0, fmt.Errorf("update rule example %d: %w", ex.ID, err)
		}
		return ex.ID, nil
	case TypeDelete:
		ex, err := s.examples.GetRuleExample(ctx, *q.TargetID)
		if err != nil {
			return 0, fmt.Errorf("load rule example %d: %w", *q.TargetID, err)
		}
		ex.SoftDelete(now)
		if err := s.examples.UpdateRuleExample(ctx, ex); err != nil {
			return 0, fmt.Errorf("delete rule example %d: %w", ex.ID, err)
		}
		return ex.ID, nil
	default:
		return 0, fmt.Errorf("unsupported feedback type: %s", q.FeedbackType)
	}
}
