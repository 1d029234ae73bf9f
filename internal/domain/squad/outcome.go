package squad

import (
	"errors"
	"fmt"
)

// OutcomeKind classifies a notification for the presentation layer.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeInfo    OutcomeKind = "info"
	OutcomeError   OutcomeKind = "error"
)

// Outcome is the human-readable result of an add or remove call.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// OutcomeFor renders a rejection so collaborators never need to inspect
// engine state. A repeated pick is informational, quota breaches are errors.
func OutcomeFor(err error) Outcome {
	if err == nil {
		return Outcome{Kind: OutcomeSuccess}
	}

	var violation *Violation
	if errors.As(err, &violation) {
		kind := OutcomeError
		if violation.Rule == RuleDuplicate {
			kind = OutcomeInfo
		}
		return Outcome{Kind: kind, Message: violation.Message()}
	}

	if errors.Is(err, ErrPlayerNotInSquad) {
		return Outcome{Kind: OutcomeInfo, Message: "That player is not in your squad."}
	}

	return Outcome{Kind: OutcomeError, Message: fmt.Sprintf("Cannot update squad: %v", err)}
}

// RuleOf returns the rule behind a violation error, if any.
func RuleOf(err error) (RuleName, bool) {
	var violation *Violation
	if errors.As(err, &violation) {
		return violation.Rule, true
	}
	return "", false
}
