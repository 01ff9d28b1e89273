package engine

import (
	"context"
	"fmt"
	"strings"
)

// Loop drives one session through the REASONING -> ACTING -> REFLECTING
// cycle until a terminal condition. Oracle, Tools and Reflector are shared
// read-only collaborators; each Run gets its own Session, so concurrent
// sessions need no locking.
type Loop struct {
	Oracle    Oracle
	Tools     ToolRegistry
	Reflector *Reflector
	Limits    Limits
	Hooks     Hooks
}

// NewLoop assembles a session loop.
func NewLoop(oracle Oracle, tools ToolRegistry, table EscalationTable, limits Limits, hooks Hooks) *Loop {
	return &Loop{
		Oracle:    oracle,
		Tools:     tools,
		Reflector: NewReflector(table),
		Limits:    limits,
		Hooks:     hooks,
	}
}

// Run executes the session to a terminal state and returns it. The caller
// always receives a well-formed session: Done is true, Plan is set, and
// the step log satisfies len(Steps) <= MaxSteps with at most
// MaxReflections reflection steps. Tool failures are absorbed through
// reflection; oracle failures (timeout, transport, unparseable reply)
// terminate the session once with a degraded plan and are never retried.
func (l *Loop) Run(ctx context.Context, problem string) *Session {
	sess := NewSession(problem)
	l.Hooks.OnSessionStart(ctx, sess)

	for {
		// Limit checks happen before each oracle call, so a tripped
		// ceiling never issues another request.
		if len(sess.Steps) >= l.Limits.MaxSteps {
			l.finish(ctx, sess, stepLimitPlan(sess, l.Limits.MaxSteps))
			return sess
		}
		if sess.ReflectionCount() >= l.Limits.MaxReflections {
			l.finish(ctx, sess, reflectionLimitPlan(l.Limits.MaxReflections))
			return sess
		}

		sess.Phase = PhaseReasoning
		l.Hooks.OnPhase(ctx, sess, PhaseReasoning)

		guidance := sess.PendingGuidance()
		octx, cancel := context.WithTimeout(ctx, l.Limits.OracleTimeout)
		dec, err := l.Oracle.Decide(octx, sess.Problem, sess.Steps, guidance)
		cancel()
		if err != nil {
			err = WrapOracleError(err)
			l.Hooks.OnOracleError(ctx, sess, err)
			l.finish(ctx, sess, degradedPlan(err))
			return sess
		}
		l.Hooks.OnDecision(ctx, sess, dec)

		if dec.IsFinish() {
			sess.Append(Step{Kind: StepFinish, Thought: dec.Thought})
			l.finish(ctx, sess, dec.Plan)
			return sess
		}

		sess.Phase = PhaseActing
		l.Hooks.OnPhase(ctx, sess, PhaseActing)
		l.Hooks.OnToolCall(ctx, sess, *dec.Action)
		obs := l.Tools.Invoke(ctx, dec.Action.ToolName, dec.Action.Parameters)
		l.Hooks.OnToolResult(ctx, sess, *dec.Action, obs)

		step := Step{Kind: StepAction, Thought: dec.Thought, Action: dec.Action, Observation: &obs}
		sess.Append(step)

		sess.Phase = PhaseReflecting
		l.Hooks.OnPhase(ctx, sess, PhaseReflecting)
		verdict := l.Reflector.Inspect(step)
		l.Hooks.OnReflection(ctx, sess, verdict)

		// The synthetic reflection step is only appended while both
		// ceilings leave room; otherwise the next loop check terminates.
		if verdict.NeedsAdaptation &&
			len(sess.Steps) < l.Limits.MaxSteps &&
			sess.ReflectionCount() < l.Limits.MaxReflections {
			sess.Append(ReflectionStep(verdict))
			sess.NeedsAdaptation = true
			sess.ReflectionReason = verdict.Reason
			sess.SuggestedAlternative = verdict.Alternative
		}
	}
}

func (l *Loop) finish(ctx context.Context, sess *Session, plan string) {
	sess.Plan = plan
	sess.Done = true
	sess.Phase = PhaseDone
	l.Hooks.OnDone(ctx, sess)
}

// stepLimitPlan synthesizes the forced conclusion for a session that hit
// the step ceiling, summarizing what the recent successful tools achieved.
func stepLimitPlan(sess *Session, max int) string {
	tools := lastSuccessfulTools(sess, 5)
	if len(tools) > 0 {
		return fmt.Sprintf(
			"Maximum steps (%d) reached. Successfully executed %s; problem addressed to the extent possible with available information.",
			max, strings.Join(tools, ", "))
	}
	return fmt.Sprintf("Maximum steps (%d) reached. Applied standard operating procedures for the logistics situation.", max)
}

func reflectionLimitPlan(max int) string {
	return fmt.Sprintf("Maximum reflections (%d) reached. Terminating with current resolution.", max)
}

// degradedPlan words the forced conclusion for a fatal oracle failure.
func degradedPlan(err error) string {
	switch ClassifyOracleError(err) {
	case OracleTimeout:
		return "Decision service call timed out. Session closed without a full resolution; manual follow-up required."
	case OracleQuota:
		return "Decision service quota exhausted. Session closed without a full resolution; retry the session later."
	case OracleAuth:
		return "Decision service rejected the credentials. Session closed without a full resolution; check provider configuration."
	case OracleParse:
		return "Decision service returned an unusable reply. Session closed without a full resolution; manual follow-up required."
	default:
		return fmt.Sprintf("Decision service error (%v). Session closed without a full resolution; manual follow-up required.", err)
	}
}

// lastSuccessfulTools collects distinct tool names from the most recent n
// action steps whose observations did not fail, newest first.
func lastSuccessfulTools(sess *Session, n int) []string {
	var tools []string
	seen := make(map[string]bool)
	count := 0
	for i := len(sess.Steps) - 1; i >= 0 && count < n; i-- {
		st := sess.Steps[i]
		if st.Kind != StepAction {
			continue
		}
		count++
		if st.Observation == nil || st.Observation.IsError() {
			continue
		}
		name := st.Action.ToolName
		if !seen[name] {
			seen[name] = true
			tools = append(tools, name)
		}
	}
	return tools
}
