package feedback

import (
	"fmt"

	"github.com/archmeta/archmeta-go/internal/catalog"
)

// Registry maps each target type to its payload validator, merge validator,
// and merge strategy. It is built once at startup; a target type without all
// three handlers is a deployment defect and fails construction, so a resolver
// miss can never surface mid-request.
type Registry struct {
	payloadValidators map[TargetType]PayloadValidator
	mergeValidators   map[TargetType]MergeValidator
	strategies        map[TargetType]MergeStrategy
}

// NewRegistry builds a registry from explicit handler sets and verifies every
// registered target type is fully covered.
func NewRegistry(validators []PayloadValidator, mergeValidators []MergeValidator, strategies []MergeStrategy) (*Registry, error) {
	r := &Registry{
		payloadValidators: make(map[TargetType]PayloadValidator, len(validators)),
		mergeValidators:   make(map[TargetType]MergeValidator, len(mergeValidators)),
		strategies:        make(map[TargetType]MergeStrategy, len(strategies)),
	}
	for _, v := range validators {
		if _, dup := r.payloadValidators[v.TargetType()]; dup {
			return nil, fmt.Errorf("duplicate payload validator for %s", v.TargetType())
		}
		r.payloadValidators[v.TargetType()] = v
	}
	for _, v := range mergeValidators {
		if _, dup := r.mergeValidators[v.TargetType()]; dup {
			return nil, fmt.Errorf("duplicate merge validator for %s", v.TargetType())
		}
		r.mergeValidators[v.TargetType()] = v
	}
	for _, s := range strategies {
		if _, dup := r.strategies[s.TargetType()]; dup {
			return nil, fmt.Errorf("duplicate merge strategy for %s", s.TargetType())
		}
		r.strategies[s.TargetType()] = s
	}

	for _, t := range AllTargetTypes {
		if _, ok := r.payloadValidators[t]; !ok {
			return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "payload validator"}
		}
		if _, ok := r.mergeValidators[t]; !ok {
			return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "merge validator"}
		}
		if _, ok := r.strategies[t]; !ok {
			return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "merge strategy"}
		}
	}
	return r, nil
}

// NewDefaultRegistry wires the full handler set for every target type against
// one catalog store. Merge validators are derived from the payload validators
// since the existence checks are identical on both sides of the review cycle.
func NewDefaultRegistry(store catalog.Store, clock Clock) (*Registry, error) {
	validators := []PayloadValidator{
		NewCodingRulePayloadValidator(store, store),
		NewClassTemplatePayloadValidator(store, store),
		NewRuleExamplePayloadValidator(store, store),
	}
	mergeValidators := make([]MergeValidator, 0, len(validators))
	for _, v := range validators {
		mergeValidators = append(mergeValidators, NewMergeValidator(v))
	}
	strategies := []MergeStrategy{
		NewCodingRuleMergeStrategy(store, clock),
		NewClassTemplateMergeStrategy(store, clock),
		NewRuleExampleMergeStrategy(store, clock),
	}
	return NewRegistry(validators, mergeValidators, strategies)
}

// PayloadValidator resolves the submission-time validator for a target type.
func (r *Registry) PayloadValidator(t TargetType) (PayloadValidator, error) {
	v, ok := r.payloadValidators[t]
	if !ok {
		return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "payload validator"}
	}
	return v, nil
}

// MergeValidator resolves the merge-time validator for a target type.
func (r *Registry) MergeValidator(t TargetType) (MergeValidator, error) {
	v, ok := r.mergeValidators[t]
	if !ok {
		return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "merge validator"}
	}
	return v, nil
}

// MergeStrategy resolves the merge strategy for a target type.
func (r *Registry) MergeStrategy(t TargetType) (MergeStrategy, error) {
	s, ok := r.strategies[t]
	if !ok {
		return nil, &UnsupportedTargetTypeError{TargetType: t, Component: "merge strategy"}
	}
	return s, nil
}
