// engine/hook_logger.go
package engine

import (
	"context"
	"log"
)

type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnSessionStart(_ context.Context, sess *Session) {
	h.L.Printf("session start: %q", preview(sess.Problem, 80))
}
func (h LoggerHook) OnPhase(_ context.Context, sess *Session, phase Phase) {
	h.L.Printf("step=%d phase=%s", len(sess.Steps), phase)
}
func (h LoggerHook) OnDecision(_ context.Context, _ *Session, dec Decision) {
	if dec.IsFinish() {
		h.L.Printf("decision: finish plan=%s", preview(dec.Plan, 100))
		return
	}
	h.L.Printf("decision: tool=%s thought=%s", dec.Action.ToolName, preview(dec.Thought, 100))
}
func (h LoggerHook) OnToolCall(_ context.Context, _ *Session, action Action) {
	h.L.Printf("tool → %s params=%v", action.ToolName, action.Parameters)
}
func (h LoggerHook) OnToolResult(_ context.Context, _ *Session, action Action, obs Observation) {
	if obs.IsError() {
		h.L.Printf("tool %s error: code=%s %s", action.ToolName, obs.ErrorCode, obs.Message)
		return
	}
	h.L.Printf("tool %s status=%s fields=%d", action.ToolName, obs.Status, len(obs.Fields))
}
func (h LoggerHook) OnReflection(_ context.Context, sess *Session, verdict Verdict) {
	if !verdict.NeedsAdaptation {
		return
	}
	h.L.Printf("reflection %d: %s (alternative=%s)", sess.ReflectionCount()+1, verdict.Reason, orNone(verdict.Alternative))
}
func (h LoggerHook) OnOracleError(_ context.Context, _ *Session, err error) {
	h.L.Printf("oracle error (fatal): %v", err)
}
func (h LoggerHook) OnDone(_ context.Context, sess *Session) {
	h.L.Printf("done: steps=%d actions=%d reflections=%d", len(sess.Steps), sess.ActionCount(), sess.ReflectionCount())
}

func preview(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
