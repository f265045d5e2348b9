package feedback

import "fmt"

// TargetType identifies which kind of metadata entity a feedback targets.
type TargetType string

const (
	TargetCodingRule    TargetType = "CODING_RULE"
	TargetClassTemplate TargetType = "CLASS_TEMPLATE"
	TargetRuleExample   TargetType = "RULE_EXAMPLE"
)

// AllTargetTypes lists every registered target type. Registry completeness
// checks iterate this slice at startup.
var AllTargetTypes = []TargetType{
	TargetCodingRule,
	TargetClassTemplate,
	TargetRuleExample,
}

// Validate checks if the target type is known
func (t TargetType) Validate() bool {
	switch t {
	case TargetCodingRule, TargetClassTemplate, TargetRuleExample:
		return true
	default:
		return false
	}
}

// ParseTargetType converts a string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(s)
	if !t.Validate() {
		return "", fmt.Errorf("unknown target type: %q", s)
	}
	return t, nil
}

// Type describes the kind of change a feedback proposes.
type Type string

const (
	TypeAdd    Type = "ADD"
	TypeModify Type = "MODIFY"
	TypeDelete Type = "DELETE"
)

// Validate checks if the feedback type is known
func (t Type) Validate() bool {
	switch t {
	case TypeAdd, TypeModify, TypeDelete:
		return true
	default:
		return false
	}
}

// RequiresTarget reports whether feedback of this type must reference an
// existing entity. ADD proposes a new entity and carries no target id.
func (t Type) RequiresTarget() bool {
	return t != TypeAdd
}

// ParseType converts a string into a feedback Type
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Validate() {
		return "", fmt.Errorf("unknown feedback type: %q", s)
	}
	return t, nil
}

// RiskLevel classifies a feedback's blast radius. It is derived once at
// submission and never mutated.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "SAFE"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Validate checks if the risk level is known
func (r RiskLevel) Validate() bool {
	switch r {
	case RiskSafe, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// AutoMergeable reports whether this risk level may merge straight from
// LLM_APPROVED without a human review stage.
func (r RiskLevel) AutoMergeable() bool {
	return r == RiskSafe
}

// RequiresHumanApproval reports whether merge is gated on HUMAN_APPROVED.
func (r RiskLevel) RequiresHumanApproval() bool {
	return r == RiskMedium || r == RiskHigh
}

// ParseRiskLevel converts a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if !r.Validate() {
		return "", fmt.Errorf("unknown risk level: %q", s)
	}
	return r, nil
}

// Status is the feedback queue state machine state.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusLLMApproved   Status = "LLM_APPROVED"
	StatusLLMRejected   Status = "LLM_REJECTED"
	StatusHumanApproved Status = "HUMAN_APPROVED"
	StatusHumanRejected Status = "HUMAN_REJECTED"
	StatusMerged        Status = "MERGED"
)

// Validate checks if the status is known
func (s Status) Validate() bool {
	switch s {
	case StatusPending, StatusLLMApproved, StatusLLMRejected,
		StatusHumanApproved, StatusHumanRejected, StatusMerged:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusLLMRejected, StatusHumanRejected, StatusMerged:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Validate() {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// Action is one of the externally triggered review operations.
type Action string

const (
	ActionLLMApprove   Action = "LLM_APPROVE"
	ActionLLMReject    Action = "LLM_REJECT"
	ActionHumanApprove Action = "HUMAN_APPROVE"
	ActionHumanReject  Action = "HUMAN_REJECT"
	ActionMerge        Action = "MERGE"
)

// Validate checks if the action is known
func (a Action) Validate() bool {
	switch a {
	case ActionLLMApprove, ActionLLMReject, ActionHumanApprove, ActionHumanReject, ActionMerge:
		return true
	default:
		return false
	}
}

// OutcomeStatus returns the status this action produces when applied.
func (a Action) OutcomeStatus() Status {
	switch a {
	case ActionLLMApprove:
		return StatusLLMApproved
	case ActionLLMReject:
		return StatusLLMRejected
	case ActionHumanApprove:
		return StatusHumanApproved
	case ActionHumanReject:
		return StatusHumanRejected
	case ActionMerge:
		return StatusMerged
	default:
		panic(fmt.Sprintf("feedback: no outcome status for action %q", a))
	}
}

// ParseAction converts a string into an Action
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Validate() {
		return "", fmt.Errorf("unknown action: %q", s)
	}
	return a, nil
}
