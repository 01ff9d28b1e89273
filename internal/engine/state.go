// Package engine implements the bounded reason/act/reflect loop that
// coordinates one logistics problem-solving session.
package engine

// Phase represents the current phase of the session state machine.
type Phase string

const (
	PhaseReasoning  Phase = "reasoning"
	PhaseActing     Phase = "acting"
	PhaseReflecting Phase = "reflecting"
	PhaseDone       Phase = "done"
)

// StepKind discriminates the step variants. Every step is exactly one kind.
type StepKind string

const (
	StepAction     StepKind = "action"     // tool call with its observation
	StepReflection StepKind = "reflection" // synthetic adaptation record
	StepFinish     StepKind = "finish"     // oracle's concluding turn
)

// Step is one immutable entry of the session audit log. Steps are
// append-only and fully resolved before the next one is created.
type Step struct {
	Kind        StepKind     `json:"kind"`
	Thought     string       `json:"thought,omitempty"`
	Action      *Action      `json:"action,omitempty"`
	Observation *Observation `json:"observation,omitempty"`
}

// Session is the unit of work: one problem description driven to a terminal
// state. Owned exclusively by the loop that created it; the adaptation
// fields are transient and consumed by the next oracle call.
type Session struct {
	Problem string `json:"problem"`
	Steps   []Step `json:"steps"`
	Plan    string `json:"plan"`
	Done    bool   `json:"done"`
	Phase   Phase  `json:"phase"`

	NeedsAdaptation      bool   `json:"-"`
	ReflectionReason     string `json:"-"`
	SuggestedAlternative string `json:"-"`
}

// NewSession creates a fresh session in the reasoning phase.
func NewSession(problem string) *Session {
	return &Session{Problem: problem, Phase: PhaseReasoning}
}

func (s *Session) Append(st Step) { s.Steps = append(s.Steps, st) }

// ReflectionCount returns the number of reflection steps taken so far.
func (s *Session) ReflectionCount() int {
	n := 0
	for _, st := range s.Steps {
		if st.Kind == StepReflection {
			n++
		}
	}
	return n
}

// ActionCount returns the number of executed tool steps.
func (s *Session) ActionCount() int {
	n := 0
	for _, st := range s.Steps {
		if st.Kind == StepAction {
			n++
		}
	}
	return n
}

// LastStep returns the most recent step, or nil for an empty session.
func (s *Session) LastStep() *Step {
	if len(s.Steps) == 0 {
		return nil
	}
	return &s.Steps[len(s.Steps)-1]
}

// PendingGuidance extracts the reflection guidance set by the last
// reflection step and clears it, so it is consumed exactly once.
func (s *Session) PendingGuidance() *Guidance {
	if !s.NeedsAdaptation {
		return nil
	}
	g := &Guidance{Reason: s.ReflectionReason, Alternative: s.SuggestedAlternative}
	s.NeedsAdaptation = false
	s.ReflectionReason = ""
	s.SuggestedAlternative = ""
	return g
}
