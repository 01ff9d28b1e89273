// Package metrics collects per-session performance data from the engine's
// hook stream: step counts, tool timings, reflection activity and oracle
// latency. A Tracker can hold its history in memory or persist it through
// a Store.
package metrics

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/project-synapse/synapse/internal/engine"
)

// ToolExecution is one tool call with timing and outcome.
type ToolExecution struct {
	Tool      string        `json:"tool"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"` // running, success, failed
}

// ReflectionEvent records one activation of the failure-recovery path.
type ReflectionEvent struct {
	At           time.Time `json:"at"`
	Reason       string    `json:"reason"`
	OriginalTool string    `json:"original_tool"`
	Alternative  string    `json:"alternative"`
}

// SessionMetrics is the complete measurement of one session.
type SessionMetrics struct {
	ID        string        `json:"id"`
	Problem   string        `json:"problem"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	TotalSteps      int `json:"total_steps"`
	ActionSteps     int `json:"action_steps"`
	ReflectionSteps int `json:"reflection_steps"`

	OracleCalls   int           `json:"oracle_calls"`
	OracleErrors  int           `json:"oracle_errors"`
	OracleLatency time.Duration `json:"oracle_latency"` // cumulative

	FirstTrySuccess bool   `json:"first_try_success"`
	Resolved        bool   `json:"resolved"`
	Plan            string `json:"plan"`

	Tools       []ToolExecution   `json:"tools"`
	Reflections []ReflectionEvent `json:"reflections"`
}

// AvgOracleLatency is the mean decision latency across oracle calls.
func (m *SessionMetrics) AvgOracleLatency() time.Duration {
	if m.OracleCalls == 0 {
		return 0
	}
	return m.OracleLatency / time.Duration(m.OracleCalls)
}

// ComplexityScore grades the session 1..10 from step volume and how much
// recovery it needed.
func (m *SessionMetrics) ComplexityScore() int {
	score := float64(m.TotalSteps)*0.5 + float64(m.ReflectionSteps)*2
	if !m.FirstTrySuccess {
		score += 3
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return int(score)
}

// Tracker observes sessions through the engine hook interface and turns
// the event stream into SessionMetrics. Safe for concurrent sessions is
// NOT a goal: one Tracker serves one Loop at a time, like the Loop itself.
type Tracker struct {
	engine.NopHook

	mu      sync.Mutex
	now     func() time.Time
	store   *Store
	current *SessionMetrics
	history []*SessionMetrics

	oracleStart time.Time
}

// NewTracker creates a tracker. store may be nil for in-memory only use.
func NewTracker(store *Store) *Tracker {
	return &Tracker{now: time.Now, store: store}
}

func (t *Tracker) OnSessionStart(_ context.Context, sess *engine.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = &SessionMetrics{
		ID:              "mtr_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Problem:         sess.Problem,
		StartedAt:       t.now(),
		FirstTrySuccess: true,
	}
}

func (t *Tracker) OnPhase(_ context.Context, _ *engine.Session, phase engine.Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if phase == engine.PhaseReasoning {
		t.oracleStart = t.now()
	}
}

func (t *Tracker) OnDecision(_ context.Context, _ *engine.Session, _ engine.Decision) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	t.current.OracleCalls++
	if !t.oracleStart.IsZero() {
		t.current.OracleLatency += t.now().Sub(t.oracleStart)
		t.oracleStart = time.Time{}
	}
}

func (t *Tracker) OnOracleError(_ context.Context, _ *engine.Session, _ error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	t.current.OracleErrors++
	t.current.FirstTrySuccess = false
	t.oracleStart = time.Time{}
}

func (t *Tracker) OnToolCall(_ context.Context, _ *engine.Session, action engine.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	t.current.Tools = append(t.current.Tools, ToolExecution{
		Tool:      action.ToolName,
		StartedAt: t.now(),
		Status:    "running",
	})
}

func (t *Tracker) OnToolResult(_ context.Context, _ *engine.Session, action engine.Action, obs engine.Observation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || len(t.current.Tools) == 0 {
		return
	}
	exec := &t.current.Tools[len(t.current.Tools)-1]
	exec.Duration = t.now().Sub(exec.StartedAt)
	if obs.IsError() {
		exec.Status = "failed"
	} else {
		exec.Status = "success"
	}
	t.current.ActionSteps++
}

func (t *Tracker) OnReflection(_ context.Context, sess *engine.Session, verdict engine.Verdict) {
	if !verdict.NeedsAdaptation {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	original := ""
	if last := sess.LastStep(); last != nil && last.Action != nil {
		original = last.Action.ToolName
	}
	t.current.Reflections = append(t.current.Reflections, ReflectionEvent{
		At:           t.now(),
		Reason:       verdict.Reason,
		OriginalTool: original,
		Alternative:  verdict.Alternative,
	})
	t.current.ReflectionSteps++
	t.current.FirstTrySuccess = false
}

func (t *Tracker) OnDone(ctx context.Context, sess *engine.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	m := t.current
	t.current = nil

	m.Duration = t.now().Sub(m.StartedAt)
	m.TotalSteps = len(sess.Steps)
	m.Plan = sess.Plan
	m.Resolved = sess.Done && m.OracleErrors == 0

	t.history = append(t.history, m)
	if t.store != nil {
		// Persistence failures never fail a session.
		if err := t.store.SaveSession(ctx, m); err != nil {
			log.Printf("metrics: failed to persist session %s: %v", m.ID, err)
		}
	}
}

// History returns the finished sessions recorded so far.
func (t *Tracker) History() []*SessionMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*SessionMetrics, len(t.history))
	copy(out, t.history)
	return out
}

// Last returns the most recently finished session, or nil.
func (t *Tracker) Last() *SessionMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return nil
	}
	return t.history[len(t.history)-1]
}

// AggregateStats summarizes all finished sessions.
type AggregateStats struct {
	TotalSessions  int           `json:"total_sessions"`
	SuccessRate    float64       `json:"success_rate"` // percent
	AvgDuration    time.Duration `json:"avg_duration"`
	AvgSteps       float64       `json:"avg_steps"`
	ReflectionRate float64       `json:"reflection_rate"` // percent of sessions that reflected
	AvgComplexity  float64       `json:"avg_complexity"`
}

// Aggregate computes summary statistics over the tracker's history.
func (t *Tracker) Aggregate() AggregateStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := AggregateStats{TotalSessions: len(t.history)}
	if stats.TotalSessions == 0 {
		return stats
	}

	var resolved, reflected int
	var totalDuration time.Duration
	var totalSteps, totalComplexity float64
	for _, m := range t.history {
		if m.Resolved {
			resolved++
		}
		if m.ReflectionSteps > 0 {
			reflected++
		}
		totalDuration += m.Duration
		totalSteps += float64(m.TotalSteps)
		totalComplexity += float64(m.ComplexityScore())
	}

	n := float64(stats.TotalSessions)
	stats.SuccessRate = float64(resolved) / n * 100
	stats.AvgDuration = totalDuration / time.Duration(stats.TotalSessions)
	stats.AvgSteps = totalSteps / n
	stats.ReflectionRate = float64(reflected) / n * 100
	stats.AvgComplexity = totalComplexity / n
	return stats
}
