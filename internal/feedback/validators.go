package feedback

import (
	"context"
	"fmt"

	"github.com/archmeta/archmeta-go/internal/catalog"
)

// PayloadValidator shape-checks a submission payload and confirms every
// entity it references exists. Runs at submission time; a failure means no
// feedback row is created.
type PayloadValidator interface {
	TargetType() TargetType
	Validate(ctx context.Context, req SubmitRequest) error
}

// codingRulePayloadValidator validates CODING_RULE submissions: the
// Convention parent must exist for ADD, the rule itself for MODIFY/DELETE.
type codingRulePayloadValidator struct {
	conventions catalog.ConventionStore
	rules       catalog.CodingRuleStore
}

// NewCodingRulePayloadValidator wires the CODING_RULE payload validator.
func NewCodingRulePayloadValidator(conventions catalog.ConventionStore, rules catalog.CodingRuleStore) PayloadValidator {
	return &codingRulePayloadValidator{conventions: conventions, rules: rules}
}

func (v *codingRulePayloadValidator) TargetType() TargetType { return TargetCodingRule }

func (v *codingRulePayloadValidator) Validate(ctx context.Context, req SubmitRequest) error {
	switch req.FeedbackType {
	case TypeAdd:
		var p CodingRuleAddPayload
		if err := parsePayload(TargetCodingRule, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetCodingRule, "convention", p.ConventionID, v.conventions.ConventionExists)
	case TypeModify:
		var p CodingRuleModifyPayload
		if err := parsePayload(TargetCodingRule, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetCodingRule, "coding rule", p.CodingRuleID, v.rules.CodingRuleExists)
	case TypeDelete:
		return requireTarget(ctx, TargetCodingRule, "coding rule", req.TargetID, v.rules.CodingRuleExists)
	default:
		return &PayloadError{TargetType: TargetCodingRule, FeedbackType: req.FeedbackType, Reason: "unsupported feedback type"}
	}
}

// classTemplatePayloadValidator validates CLASS_TEMPLATE submissions against
// the PackageStructure parent.
type classTemplatePayloadValidator struct {
	structures catalog.PackageStructureStore
	templates  catalog.ClassTemplateStore
}

// NewClassTemplatePayloadValidator wires the CLASS_TEMPLATE payload validator.
func NewClassTemplatePayloadValidator(structures catalog.PackageStructureStore, templates catalog.ClassTemplateStore) PayloadValidator {
	return &classTemplatePayloadValidator{structures: structures, templates: templates}
}

func (v *classTemplatePayloadValidator) TargetType() TargetType { return TargetClassTemplate }

func (v *classTemplatePayloadValidator) Validate(ctx context.Context, req SubmitRequest) error {
	switch req.FeedbackType {
	case TypeAdd:
		var p ClassTemplateAddPayload
		if err := parsePayload(TargetClassTemplate, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetClassTemplate, "package structure", p.PackageStructureID, v.structures.PackageStructureExists)
	case TypeModify:
		var p ClassTemplateModifyPayload
		if err := parsePayload(TargetClassTemplate, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetClassTemplate, "class template", p.ClassTemplateID, v.templates.ClassTemplateExists)
	case TypeDelete:
		return requireTarget(ctx, TargetClassTemplate, "class template", req.TargetID, v.templates.ClassTemplateExists)
	default:
		return &PayloadError{TargetType: TargetClassTemplate, FeedbackType: req.FeedbackType, Reason: "unsupported feedback type"}
	}
}

// ruleExamplePayloadValidator validates RULE_EXAMPLE submissions against the
// CodingRule parent.
type ruleExamplePayloadValidator struct {
	rules    catalog.CodingRuleStore
	examples catalog.RuleExampleStore
}

// NewRuleExamplePayloadValidator wires the RULE_EXAMPLE payload validator.
func NewRuleExamplePayloadValidator(rules catalog.CodingRuleStore, examples catalog.RuleExampleStore) PayloadValidator {
	return &ruleExamplePayloadValidator{rules: rules, examples: examples}
}

func (v *ruleExamplePayloadValidator) TargetType() TargetType { return TargetRuleExample }

func (v *ruleExamplePayloadValidator) Validate(ctx context.Context, req SubmitRequest) error {
	switch req.FeedbackType {
	case TypeAdd:
		var p RuleExampleAddPayload
		if err := parsePayload(TargetRuleExample, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetRuleExample, "coding rule", p.CodingRuleID, v.rules.CodingRuleExists)
	case TypeModify:
		var p RuleExampleModifyPayload
		if err := parsePayload(TargetRuleExample, req.FeedbackType, req.Payload, &p); err != nil {
			return err
		}
		return requireExists(ctx, TargetRuleExample, "rule example", p.RuleExampleID, v.examples.RuleExampleExists)
	case TypeDelete:
		return requireTarget(ctx, TargetRuleExample, "rule example", req.TargetID, v.examples.RuleExampleExists)
	default:
		return &PayloadError{TargetType: TargetRuleExample, FeedbackType: req.FeedbackType, Reason: "unsupported feedback type"}
	}
}

type existsFunc func(ctx context.Context, id int64) (bool, error)

func requireExists(ctx context.Context, targetType TargetType, entity string, id int64, exists existsFunc) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", entity, id, err)
	}
	if !ok {
		return &ReferenceError{TargetType: targetType, Entity: entity, ID: id}
	}
	return nil
}

func requireTarget(ctx context.Context, targetType TargetType, entity string, targetID *int64, exists existsFunc) error {
	if targetID == nil {
		return &PayloadError{TargetType: targetType, FeedbackType: TypeDelete, Reason: "target id is required for delete"}
	}
	return requireExists(ctx, targetType, entity, *targetID, exists)
}
