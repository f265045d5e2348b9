package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(newFakeCatalog(), fixedClock{testTime})
	require.NoError(t, err)

	for _, tt := range AllTargetTypes {
		v, err := r.PayloadValidator(tt)
		require.NoError(t, err)
		assert.Equal(t, tt, v.TargetType())

		mv, err := r.MergeValidator(tt)
		require.NoError(t, err)
		assert.Equal(t, tt, mv.TargetType())

		s, err := r.MergeStrategy(tt)
		require.NoError(t, err)
		assert.Equal(t, tt, s.TargetType())
	}
}

func TestNewRegistryIncomplete(t *testing.T) {
	cat := newFakeCatalog()
	clock := fixedClock{testTime}

	validators := []PayloadValidator{
		NewCodingRulePayloadValidator(cat, cat),
		NewClassTemplatePayloadValidator(cat, cat),
		NewRuleExamplePayloadValidator(cat, cat),
	}
	mergeValidators := make([]MergeValidator, 0, len(validators))
	for _, v := range validators {
		mergeValidators = append(mergeValidators, NewMergeValidator(v))
	}

	// Missing the RULE_EXAMPLE strategy: construction fails at startup.
	strategies := []MergeStrategy{
		NewCodingRuleMergeStrategy(cat, clock),
		NewClassTemplateMergeStrategy(cat, clock),
	}

	_, err := NewRegistry(validators, mergeValidators, strategies)
	var unsupported *UnsupportedTargetTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, TargetRuleExample, unsupported.TargetType)
	assert.Equal(t, "merge strategy", unsupported.Component)
}

func TestNewRegistryDuplicate(t *testing.T) {
	cat := newFakeCatalog()
	clock := fixedClock{testTime}

	validators := []PayloadValidator{
		NewCodingRulePayloadValidator(cat, cat),
		NewCodingRulePayloadValidator(cat, cat),
	}
	_, err := NewRegistry(validators, nil, []MergeStrategy{NewCodingRuleMergeStrategy(cat, clock)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate payload validator")
}

func TestRegistryUnknownTargetType(t *testing.T) {
	r, err := NewDefaultRegistry(newFakeCatalog(), fixedClock{testTime})
	require.NoError(t, err)

	_, err = r.PayloadValidator(TargetType("WIDGET"))
	var unsupported *UnsupportedTargetTypeError
	assert.ErrorAs(t, err, &unsupported)
}
