package engine

import "context"

type Hook interface {
	OnSessionStart(ctx context.Context, sess *Session)
	OnPhase(ctx context.Context, sess *Session, phase Phase)
	OnDecision(ctx context.Context, sess *Session, dec Decision)
	OnToolCall(ctx context.Context, sess *Session, action Action)
	OnToolResult(ctx context.Context, sess *Session, action Action, obs Observation)
	OnReflection(ctx context.Context, sess *Session, verdict Verdict)
	OnOracleError(ctx context.Context, sess *Session, err error)
	OnDone(ctx context.Context, sess *Session)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnSessionStart(context.Context, *Session)                  {}
func (NopHook) OnPhase(context.Context, *Session, Phase)                  {}
func (NopHook) OnDecision(context.Context, *Session, Decision)            {}
func (NopHook) OnToolCall(context.Context, *Session, Action)              {}
func (NopHook) OnToolResult(context.Context, *Session, Action, Observation) {
}
func (NopHook) OnReflection(context.Context, *Session, Verdict)  {}
func (NopHook) OnOracleError(context.Context, *Session, error)   {}
func (NopHook) OnDone(context.Context, *Session)                 {}
