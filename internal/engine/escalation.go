package engine

// FailurePredicate evaluates whether an observation signals the failure a
// rule is keyed on. Predicates must be pure: same observation, same answer.
type FailurePredicate func(Observation) bool

// EscalationRule maps one failure signature of a tool to the next tool in
// its recovery chain. Alternative may be empty for rules that only flag
// adaptation and leave the next choice to the oracle.
type EscalationRule struct {
	Reason      string
	Alternative string
	When        FailurePredicate
}

// EscalationTable is static, read-only recovery data keyed by trigger tool.
// A tool's rules are evaluated in declaration order and the first match
// wins, so chains are linear and deterministic: the same (tool,
// observation) pair always yields the same alternative. The last tool of a
// chain simply has no entry, and a repeated failure there falls back to the
// loop's generic failure handling.
type EscalationTable map[string][]EscalationRule

// Evaluate returns the first matching rule for the tool's observation.
func (t EscalationTable) Evaluate(toolName string, obs Observation) (EscalationRule, bool) {
	for _, rule := range t[toolName] {
		if rule.When(obs) {
			return rule, true
		}
	}
	return EscalationRule{}, false
}

// FieldIsFalse builds a predicate matching an explicit boolean payload
// field set to false. Absent fields do not match.
func FieldIsFalse(key string) FailurePredicate {
	return func(obs Observation) bool {
		v, ok := obs.Bool(key)
		return ok && !v
	}
}

// FieldEquals builds a predicate matching a string payload field against a
// set of values.
func FieldEquals(key string, values ...string) FailurePredicate {
	return func(obs Observation) bool {
		v, ok := obs.Str(key)
		if !ok {
			return false
		}
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

// FieldBelow builds a predicate matching a numeric payload field strictly
// below the threshold.
func FieldBelow(key string, threshold float64) FailurePredicate {
	return func(obs Observation) bool {
		v, ok := obs.Float(key)
		return ok && v < threshold
	}
}

// FieldPresent builds a predicate matching any non-nil payload field.
func FieldPresent(key string) FailurePredicate {
	return func(obs Observation) bool {
		v, ok := obs.Fields[key]
		return ok && v != nil
	}
}
