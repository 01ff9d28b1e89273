package engine

import "fmt"

// Verdict is the reflection engine's judgement on one completed action
// step.
type Verdict struct {
	NeedsAdaptation bool
	Reason          string
	Alternative     string // empty when the oracle must choose freely
}

// Reflector inspects action observations against the escalation table and
// a small set of generic failure patterns. It is stateless; limit
// enforcement lives in the loop.
type Reflector struct {
	Table EscalationTable
}

// NewReflector creates a reflector over the given (immutable) table.
func NewReflector(table EscalationTable) *Reflector {
	return &Reflector{Table: table}
}

// Inspect evaluates the just-completed action step. Table rules are checked
// first so a tool with a recovery chain escalates down it even when the
// observation also carries status="error"; the generic patterns only apply
// when no tool-specific rule matched. Non-action steps never need
// adaptation.
func (r *Reflector) Inspect(step Step) Verdict {
	if step.Kind != StepAction || step.Observation == nil || step.Action == nil {
		return Verdict{}
	}
	obs := *step.Observation

	if rule, ok := r.Table.Evaluate(step.Action.ToolName, obs); ok {
		return Verdict{
			NeedsAdaptation: true,
			Reason:          rule.Reason,
			Alternative:     rule.Alternative,
		}
	}

	if obs.IsError() {
		msg := obs.Message
		if msg == "" {
			msg = "unknown error"
		}
		return Verdict{
			NeedsAdaptation: true,
			Reason:          fmt.Sprintf("Tool %s failed: %s", step.Action.ToolName, msg),
		}
	}

	return Verdict{}
}

// ReflectionStep builds the synthetic step the loop appends when a verdict
// flags adaptation. The thought and observation are templated entirely from
// the verdict so replays are deterministic.
func ReflectionStep(v Verdict) Step {
	return Step{
		Kind:    StepReflection,
		Thought: fmt.Sprintf("REFLECTION: %s. Need to adapt approach.", v.Reason),
		Observation: &Observation{
			Status:      StatusReflection,
			Reason:      v.Reason,
			Alternative: v.Alternative,
		},
	}
}
