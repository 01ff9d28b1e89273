package engine

import "context"

type Event struct {
	Kind string // "session_start", "phase", "decision", "tool_start", "tool_done", "reflection", "oracle_error", "done"
	Data any
}

// EventHook bridges engine → UI channel.
type EventHook struct{ Ch chan<- Event }

func (h EventHook) OnSessionStart(_ context.Context, sess *Session) {
	h.Ch <- Event{Kind: "session_start", Data: sess.Problem}
}
func (h EventHook) OnPhase(_ context.Context, sess *Session, phase Phase) {
	h.Ch <- Event{Kind: "phase", Data: map[string]any{"step": len(sess.Steps), "phase": string(phase)}}
}
func (h EventHook) OnDecision(_ context.Context, _ *Session, dec Decision) {
	if dec.IsFinish() {
		h.Ch <- Event{Kind: "decision", Data: "finish"}
		return
	}
	h.Ch <- Event{Kind: "decision", Data: dec.Action.ToolName}
}
func (h EventHook) OnToolCall(_ context.Context, _ *Session, action Action) {
	h.Ch <- Event{Kind: "tool_start", Data: action.ToolName}
}
func (h EventHook) OnToolResult(_ context.Context, _ *Session, action Action, obs Observation) {
	h.Ch <- Event{Kind: "tool_done", Data: map[string]any{"tool": action.ToolName, "status": obs.Status}}
}
func (h EventHook) OnReflection(_ context.Context, _ *Session, verdict Verdict) {
	if !verdict.NeedsAdaptation {
		return
	}
	h.Ch <- Event{Kind: "reflection", Data: map[string]string{
		"reason":      verdict.Reason,
		"alternative": verdict.Alternative,
	}}
}
func (h EventHook) OnOracleError(_ context.Context, _ *Session, err error) {
	h.Ch <- Event{Kind: "oracle_error", Data: err.Error()}
}
func (h EventHook) OnDone(_ context.Context, sess *Session) {
	h.Ch <- Event{Kind: "done", Data: map[string]int{
		"steps":       len(sess.Steps),
		"actions":     sess.ActionCount(),
		"reflections": sess.ReflectionCount(),
	}}
}
