package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/project-synapse/synapse/internal/engine"
)

// fakeClock advances by a fixed tick on every read so durations are
// deterministic.
type fakeClock struct {
	at   time.Time
	tick time.Duration
}

func (c *fakeClock) now() time.Time {
	c.at = c.at.Add(c.tick)
	return c.at
}

func newTestTracker(store *Store) (*Tracker, *fakeClock) {
	clock := &fakeClock{at: time.Unix(1700000000, 0), tick: 10 * time.Millisecond}
	tr := NewTracker(store)
	tr.now = clock.now
	return tr, clock
}

// driveSession replays a session with one failed tool, one reflection and
// one successful recovery through the tracker's hook methods.
func driveSession(t *testing.T, tr *Tracker) *engine.Session {
	t.Helper()
	ctx := context.Background()
	sess := engine.NewSession("driver unreachable at drop-off")

	tr.OnSessionStart(ctx, sess)

	failed := engine.Action{ToolName: "contact_recipient_via_chat", Parameters: map[string]any{"recipient_id": "R1"}}
	obs := engine.Observation{Status: engine.StatusOK, Fields: map[string]any{"contact_successful": false}}

	tr.OnPhase(ctx, sess, engine.PhaseReasoning)
	tr.OnDecision(ctx, sess, engine.Decision{Thought: "try chat", Action: &failed})
	tr.OnToolCall(ctx, sess, failed)
	sess.Append(engine.Step{Kind: engine.StepAction, Action: &failed, Observation: &obs})
	tr.OnToolResult(ctx, sess, failed, engine.Observation{Status: engine.StatusError, ErrorCode: "NO_RESPONSE"})
	tr.OnReflection(ctx, sess, engine.Verdict{
		NeedsAdaptation: true,
		Reason:          "Recipient contact failed - need alternative delivery approach",
		Alternative:     "suggest_safe_drop_off",
	})
	sess.Append(engine.Step{Kind: engine.StepReflection})

	recovery := engine.Action{ToolName: "suggest_safe_drop_off"}
	tr.OnPhase(ctx, sess, engine.PhaseReasoning)
	tr.OnDecision(ctx, sess, engine.Decision{Thought: "safe drop-off", Action: &recovery})
	tr.OnToolCall(ctx, sess, recovery)
	sess.Append(engine.Step{Kind: engine.StepAction, Action: &recovery})
	tr.OnToolResult(ctx, sess, recovery, engine.Observation{Status: engine.StatusOK})

	tr.OnPhase(ctx, sess, engine.PhaseReasoning)
	tr.OnDecision(ctx, sess, engine.Decision{Thought: "done", Plan: "left with guard house"})
	sess.Append(engine.Step{Kind: engine.StepFinish})
	sess.Plan = "left with guard house"
	sess.Done = true
	tr.OnDone(ctx, sess)
	return sess
}

func TestTrackerRecordsSession(t *testing.T) {
	tr, _ := newTestTracker(nil)
	driveSession(t, tr)

	m := tr.Last()
	if m == nil {
		t.Fatal("no session recorded")
	}
	if m.TotalSteps != 4 || m.ActionSteps != 2 || m.ReflectionSteps != 1 {
		t.Errorf("steps = %d/%d/%d, want 4/2/1", m.TotalSteps, m.ActionSteps, m.ReflectionSteps)
	}
	if m.OracleCalls != 3 || m.OracleErrors != 0 {
		t.Errorf("oracle calls = %d errors = %d", m.OracleCalls, m.OracleErrors)
	}
	if m.FirstTrySuccess {
		t.Error("reflection should clear first-try success")
	}
	if !m.Resolved || m.Plan != "left with guard house" {
		t.Errorf("resolved = %v plan = %q", m.Resolved, m.Plan)
	}
	if len(m.Tools) != 2 || m.Tools[0].Status != "failed" || m.Tools[1].Status != "success" {
		t.Errorf("tool executions: %+v", m.Tools)
	}
	if len(m.Reflections) != 1 || m.Reflections[0].OriginalTool != "contact_recipient_via_chat" {
		t.Errorf("reflections: %+v", m.Reflections)
	}
	if m.Tools[0].Duration <= 0 || m.AvgOracleLatency() <= 0 {
		t.Errorf("durations not measured: tool=%v oracle=%v", m.Tools[0].Duration, m.AvgOracleLatency())
	}
}

func TestComplexityScore(t *testing.T) {
	tests := []struct {
		name string
		m    SessionMetrics
		want int
	}{
		{"trivial", SessionMetrics{TotalSteps: 1, FirstTrySuccess: true}, 1},
		{"clean run", SessionMetrics{TotalSteps: 4, FirstTrySuccess: true}, 2},
		{"one reflection", SessionMetrics{TotalSteps: 4, ReflectionSteps: 1, FirstTrySuccess: false}, 7},
		{"capped", SessionMetrics{TotalSteps: 15, ReflectionSteps: 3, FirstTrySuccess: false}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ComplexityScore(); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOracleErrorCountsAgainstSession(t *testing.T) {
	tr, _ := newTestTracker(nil)
	ctx := context.Background()
	sess := engine.NewSession("quota storm")

	tr.OnSessionStart(ctx, sess)
	tr.OnPhase(ctx, sess, engine.PhaseReasoning)
	tr.OnOracleError(ctx, sess, context.DeadlineExceeded)
	sess.Done = true
	sess.Plan = "degraded"
	tr.OnDone(ctx, sess)

	m := tr.Last()
	if m.OracleErrors != 1 || m.Resolved {
		t.Errorf("errors = %d resolved = %v", m.OracleErrors, m.Resolved)
	}
}

func TestAggregateStats(t *testing.T) {
	tr, _ := newTestTracker(nil)
	driveSession(t, tr)
	driveSession(t, tr)

	stats := tr.Aggregate()
	if stats.TotalSessions != 2 {
		t.Fatalf("total = %d", stats.TotalSessions)
	}
	if stats.SuccessRate != 100 || stats.ReflectionRate != 100 {
		t.Errorf("success = %.0f%% reflection = %.0f%%", stats.SuccessRate, stats.ReflectionRate)
	}
	if stats.AvgSteps != 4 {
		t.Errorf("avg steps = %.1f", stats.AvgSteps)
	}

	empty := NewTracker(nil).Aggregate()
	if empty.TotalSessions != 0 || empty.SuccessRate != 0 {
		t.Errorf("empty aggregate: %+v", empty)
	}
}

func TestOpenStoreUnreachablePath(t *testing.T) {
	// Parent directory does not exist, so the connection check fails and
	// OpenStore must return the error (releasing the handle) rather than a
	// half-opened store.
	path := filepath.Join(t.TempDir(), "missing", "metrics.db")
	if _, err := OpenStore(context.Background(), path); err == nil {
		t.Fatal("expected error for unreachable database path")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	tr, _ := newTestTracker(store)
	driveSession(t, tr)

	sessions, err := store.RecentSessions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	got := sessions[0]
	if got.TotalSteps != 4 || got.ReflectionSteps != 1 || !got.Resolved {
		t.Errorf("persisted session: %+v", got)
	}

	perf, err := store.ToolPerformance(ctx)
	if err != nil {
		t.Fatalf("ToolPerformance: %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("got %d tool rows: %+v", len(perf), perf)
	}
	byName := map[string]ToolStats{}
	for _, st := range perf {
		byName[st.Tool] = st
	}
	if st := byName["contact_recipient_via_chat"]; st.Uses != 1 || st.SuccessRate != 0 {
		t.Errorf("failed tool stats: %+v", st)
	}
	if st := byName["suggest_safe_drop_off"]; st.Uses != 1 || st.SuccessRate != 100 {
		t.Errorf("recovered tool stats: %+v", st)
	}
}
