package feedback

import "fmt"

// ClassifyRisk maps a feedback type to its intrinsic risk level. Risk is a
// property of the kind of change, not of its content, so the merge gate stays
// a static lookup.
//
// An unmapped feedback type is a programmer error: any new Type constant must
// be added here before it can flow through submission.
func ClassifyRisk(t Type) RiskLevel {
	switch t {
	case TypeAdd:
		return RiskSafe
	case TypeModify:
		return RiskMedium
	case TypeDelete:
		return RiskHigh
	default:
		panic(fmt.Sprintf("feedback: no risk classification for feedback type %q", t))
	}
}
