package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadCodingRuleAdd(t *testing.T) {
	var p CodingRuleAddPayload
	err := parsePayload(TargetCodingRule, TypeAdd, `{
		"convention_id": 7,
		"rule_name": "no-wildcard-imports",
		"description": "Import classes explicitly",
		"severity": "WARN",
		"rationale": "wildcard imports hide dependencies"
	}`, &p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ConventionID)
	assert.Equal(t, "no-wildcard-imports", p.RuleName)
}

func TestParsePayloadRejectsUnknownFields(t *testing.T) {
	var p CodingRuleAddPayload
	err := parsePayload(TargetCodingRule, TypeAdd, `{"convention_id":7,"rule_name":"x","severty":"WARN"}`, &p)

	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Contains(t, payloadErr.Reason, "malformed payload")
}

func TestParsePayloadRejectsMalformedJSON(t *testing.T) {
	var p RuleExampleAddPayload
	var payloadErr *PayloadError
	assert.ErrorAs(t, parsePayload(TargetRuleExample, TypeAdd, `{`, &p), &payloadErr)
	assert.ErrorAs(t, parsePayload(TargetRuleExample, TypeAdd, ``, &p), &payloadErr)
}

func TestParsePayloadRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		run     func() error
		wantMsg string
	}{
		{
			name: "coding rule add without convention",
			run: func() error {
				var p CodingRuleAddPayload
				return parsePayload(TargetCodingRule, TypeAdd, `{"rule_name":"x"}`, &p)
			},
			wantMsg: "convention_id is required",
		},
		{
			name: "coding rule add without name",
			run: func() error {
				var p CodingRuleAddPayload
				return parsePayload(TargetCodingRule, TypeAdd, `{"convention_id":1}`, &p)
			},
			wantMsg: "rule_name is required",
		},
		{
			name: "coding rule modify without id",
			run: func() error {
				var p CodingRuleModifyPayload
				return parsePayload(TargetCodingRule, TypeModify, `{"rule_name":"x"}`, &p)
			},
			wantMsg: "coding_rule_id is required",
		},
		{
			name: "class template add without structure",
			run: func() error {
				var p ClassTemplateAddPayload
				return parsePayload(TargetClassTemplate, TypeAdd, `{"class_name":"FooService"}`, &p)
			},
			wantMsg: "package_structure_id is required",
		},
		{
			name: "rule example add without code",
			run: func() error {
				var p RuleExampleAddPayload
				return parsePayload(TargetRuleExample, TypeAdd, `{"coding_rule_id":3,"title":"t"}`, &p)
			},
			wantMsg: "code is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			var payloadErr *PayloadError
			require.ErrorAs(t, err, &payloadErr)
			assert.Equal(t, tc.wantMsg, payloadErr.Reason)
		})
	}
}

func TestModifyPayloadPointerFields(t *testing.T) {
	var p CodingRuleModifyPayload
	err := parsePayload(TargetCodingRule, TypeModify, `{"coding_rule_id":5,"description":""}`, &p)
	require.NoError(t, err)

	assert.Nil(t, p.RuleName, "absent field stays nil")
	require.NotNil(t, p.Description, "explicit empty string is a set")
	assert.Equal(t, "", *p.Description)
}
