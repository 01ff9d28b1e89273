// Package tools implements the simulated logistics tool catalog: merchant,
// delivery, dispute, finance, traffic and driver operations across the
// GrabFood, GrabMart, GrabExpress and GrabCar verticals. Outcomes are
// drawn from a seeded source so a pinned seed replays identically.
package tools

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/project-synapse/synapse/internal/authz"
	"github.com/project-synapse/synapse/internal/engine"
)

// Simulator holds the shared randomness and the approval workflow behind
// every tool. One simulator serves one session; the mutex makes the rng
// safe if a caller ever shares it.
type Simulator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	auth *authz.Manager
	now  func() time.Time
}

// NewSimulator creates a simulator seeded for replayable outcomes. The
// authorization manager shares the same source so approval decisions
// replay too.
func NewSimulator(seed int64) *Simulator {
	rng := rand.New(rand.NewSource(seed))
	return &Simulator{
		rng:  rng,
		auth: authz.NewManager(rng),
		now:  time.Now,
	}
}

// Auth exposes the simulator's authorization manager.
func (s *Simulator) Auth() *authz.Manager { return s.auth }

// chance reports true with probability p.
func (s *Simulator) chance(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

func (s *Simulator) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Simulator) pickInt(vals ...int) int {
	return vals[s.intn(len(vals))]
}

func (s *Simulator) pickStr(vals ...string) string {
	return vals[s.intn(len(vals))]
}

func (s *Simulator) nowISO() string {
	return s.now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// genID builds short entity IDs like "TKT_1a2b3c4d".
func genID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ok builds a successful observation with the tool's payload.
func (s *Simulator) ok(tool string, fields map[string]any) engine.Observation {
	return engine.Observation{
		ToolName:  tool,
		Status:    engine.StatusOK,
		Fields:    fields,
		Timestamp: s.nowISO(),
	}
}

// fail builds a failure observation that still carries payload fields, so
// escalation predicates can read the failure discriminants.
func (s *Simulator) fail(tool, code, message string, fields map[string]any) engine.Observation {
	return engine.Observation{
		ToolName:  tool,
		Status:    engine.StatusError,
		ErrorCode: code,
		Message:   message,
		Fields:    fields,
		Timestamp: s.nowISO(),
	}
}

func (s *Simulator) invalid(tool, message string) engine.Observation {
	obs := engine.ErrorObservation(tool, "INVALID_PARAM", message)
	obs.Timestamp = s.nowISO()
	return obs
}

// Parameter accessors. Tool parameters arrive as decoded JSON, so numbers
// are float64 and nested values are maps and slices.

func strParam(params map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := params[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func mapParam(params map[string]any, key string) (map[string]any, bool) {
	v, ok := params[key].(map[string]any)
	return v, ok
}

func listParam(params map[string]any, key string) ([]any, bool) {
	v, ok := params[key].([]any)
	return v, ok
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
