package engine

import "context"

type Hooks []Hook

func (hs Hooks) OnSessionStart(ctx context.Context, sess *Session) {
	for _, h := range hs {
		h.OnSessionStart(ctx, sess)
	}
}
func (hs Hooks) OnPhase(ctx context.Context, sess *Session, phase Phase) {
	for _, h := range hs {
		h.OnPhase(ctx, sess, phase)
	}
}
func (hs Hooks) OnDecision(ctx context.Context, sess *Session, dec Decision) {
	for _, h := range hs {
		h.OnDecision(ctx, sess, dec)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, sess *Session, action Action) {
	for _, h := range hs {
		h.OnToolCall(ctx, sess, action)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, sess *Session, action Action, obs Observation) {
	for _, h := range hs {
		h.OnToolResult(ctx, sess, action, obs)
	}
}
func (hs Hooks) OnReflection(ctx context.Context, sess *Session, verdict Verdict) {
	for _, h := range hs {
		h.OnReflection(ctx, sess, verdict)
	}
}
func (hs Hooks) OnOracleError(ctx context.Context, sess *Session, err error) {
	for _, h := range hs {
		h.OnOracleError(ctx, sess, err)
	}
}
func (hs Hooks) OnDone(ctx context.Context, sess *Session) {
	for _, h := range hs {
		h.OnDone(ctx, sess)
	}
}
