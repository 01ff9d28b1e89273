// Package authz implements the approval workflow for actions that need
// human oversight: monetary thresholds, safety and regulatory escalation,
// and an emergency override path with an audit trail.
package authz

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the authority required to approve an action.
type Level string

const (
	LevelAutomatic  Level = "automatic"
	LevelSupervisor Level = "supervisor"
	LevelManager    Level = "manager"
	LevelDirector   Level = "director"
	LevelExecutive  Level = "executive"
	LevelRegulatory Level = "regulatory"
	LevelEmergency  Level = "emergency"
)

// Status of an approval request.
type Status string

const (
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusEmergencyOverride Status = "emergency_override"
)

// Request is one approval request and its outcome.
type Request struct {
	ID              string
	ActionType      string
	Description     string
	MonetaryValue   float64
	Level           Level
	Urgency         string // low, medium, high, critical
	Status          Status
	Approver        string
	RejectionReason string
	Conditions      []string
	CreatedAt       time.Time
	DecidedAt       time.Time
	ExpiresAt       time.Time
}

// Rng is the randomness the simulated approval decision needs. Satisfied
// by *math/rand.Rand, so sessions pin a seed for replayable decisions.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

// Manager decides when an action needs human approval, at which level, and
// simulates the decision. Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	rng     Rng
	now     func() time.Time
	pending map[string]*Request
	history []*Request

	// Monetary ceilings per level, ascending. An amount at or below a
	// ceiling is approvable at that level.
	thresholds []levelThreshold

	// Actions that never need approval.
	autoApproved map[string]bool

	EmergencyOverrideEnabled bool
}

type levelThreshold struct {
	level   Level
	ceiling float64
}

// NewManager creates a manager with the standard thresholds. rng drives
// the simulated decisions; pass a seeded *rand.Rand for determinism.
func NewManager(rng Rng) *Manager {
	return &Manager{
		rng:     rng,
		now:     time.Now,
		pending: make(map[string]*Request),
		thresholds: []levelThreshold{
			{LevelAutomatic, 0},
			{LevelSupervisor, 25},
			{LevelManager, 100},
			{LevelDirector, 500},
			{LevelExecutive, 2000},
		},
		autoApproved: map[string]bool{
			"standard_delivery_delay_notification": true,
			"traffic_rerouting":                    true,
			"merchant_status_check":                true,
			"customer_notification":                true,
		},
		EmergencyOverrideEnabled: true,
	}
}

var safetyKeywords = []string{"accident", "injury", "emergency", "threat", "danger", "assault"}
var legalKeywords = []string{"lawsuit", "legal", "court", "police", "fraud", "theft", "compliance"}

// RequiredLevel determines whether the action needs approval and at what
// level. Safety scenarios escalate to emergency, legal scenarios to
// regulatory, everything else follows the monetary ladder.
func (m *Manager) RequiredLevel(action string, monetaryValue float64, context map[string]any) (bool, Level) {
	if m.autoApproved[action] {
		return false, LevelAutomatic
	}

	haystack := strings.ToLower(action + " " + fmt.Sprint(context))
	for _, kw := range safetyKeywords {
		if strings.Contains(haystack, kw) {
			return true, LevelEmergency
		}
	}
	for _, kw := range legalKeywords {
		if strings.Contains(haystack, kw) {
			return true, LevelRegulatory
		}
	}

	if v, ok := context["delivery_value"].(float64); ok && v > 1000 {
		return true, LevelManager
	}

	for _, t := range m.thresholds {
		if monetaryValue <= t.ceiling {
			if t.level == LevelAutomatic {
				return false, LevelAutomatic
			}
			return true, t.level
		}
	}

	// Above every ceiling: regulatory review.
	return true, LevelRegulatory
}

// RequestApproval creates an approval request. Auto-approvable actions
// come back already approved.
func (m *Manager) RequestApproval(action, description string, monetaryValue float64, context map[string]any, urgency string) *Request {
	required, level := m.RequiredLevel(action, monetaryValue, context)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	req := &Request{
		ID:            "REQ_" + uuid.NewString()[:8],
		ActionType:    action,
		Description:   description,
		MonetaryValue: monetaryValue,
		Level:         level,
		Urgency:       urgency,
		CreatedAt:     now,
	}

	if !required {
		req.Status = StatusApproved
		req.Approver = "system_auto"
		req.DecidedAt = now
		m.history = append(m.history, req)
		return req
	}

	req.Status = StatusPending
	req.ExpiresAt = now.Add(expiryWindow(urgency, level))
	m.pending[req.ID] = req
	return req
}

// SimulateDecision resolves a pending request the way a human approver
// would, driven by the manager's rng.
func (m *Manager) SimulateDecision(req *Request) *Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	prob := approvalProbability(req)
	if m.rng.Float64() < prob {
		req.Status = StatusApproved
		req.Approver = string(req.Level) + "_approver"
		if req.MonetaryValue > 100 {
			req.Conditions = append(req.Conditions, "Requires receipt documentation")
		}
		if strings.Contains(strings.ToLower(req.ActionType), "refund") {
			req.Conditions = append(req.Conditions, "Customer satisfaction survey required")
		}
	} else {
		req.Status = StatusRejected
		req.Approver = string(req.Level) + "_approver"
		req.RejectionReason = m.rejectionReason(req)
	}
	req.DecidedAt = m.now()

	delete(m.pending, req.ID)
	m.history = append(m.history, req)
	return req
}

// OverrideAvailable reports whether the emergency override applies.
func (m *Manager) OverrideAvailable(req *Request) bool {
	if !m.EmergencyOverrideEnabled {
		return false
	}
	return req.Urgency == "critical" ||
		strings.Contains(strings.ToLower(req.ActionType), "emergency") ||
		strings.Contains(strings.ToLower(req.Description), "safety") ||
		req.Level == LevelEmergency
}

// ApplyOverride bypasses the approval workflow for an emergency. The
// override is recorded on the request's conditions for the audit trail.
func (m *Manager) ApplyOverride(req *Request, reason string) *Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.Status = StatusEmergencyOverride
	req.Approver = "emergency_override_system"
	req.DecidedAt = m.now()
	req.Conditions = append(req.Conditions,
		"Emergency override: "+reason,
		"Post-incident review required")

	delete(m.pending, req.ID)
	m.history = append(m.history, req)
	return req
}

// Summary aggregates the decision history.
type Summary struct {
	TotalRequests      int
	Approved           int
	Rejected           int
	Pending            int
	EmergencyOverrides int
	ApprovalRate       float64
	TotalMonetaryValue float64
}

func (m *Manager) Summarize() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		TotalRequests: len(m.history) + len(m.pending),
		Pending:       len(m.pending),
	}
	for _, r := range m.history {
		s.TotalMonetaryValue += r.MonetaryValue
		switch r.Status {
		case StatusApproved:
			s.Approved++
		case StatusRejected:
			s.Rejected++
		case StatusEmergencyOverride:
			s.EmergencyOverrides++
		}
	}
	if len(m.history) > 0 {
		s.ApprovalRate = float64(s.Approved) / float64(len(m.history)) * 100
	}
	return s
}

func expiryWindow(urgency string, level Level) time.Duration {
	base := map[string]time.Duration{
		"critical": 1 * time.Hour,
		"high":     4 * time.Hour,
		"medium":   24 * time.Hour,
		"low":      72 * time.Hour,
	}
	mult := map[Level]float64{
		LevelSupervisor: 1.0,
		LevelManager:    1.5,
		LevelDirector:   2.0,
		LevelExecutive:  3.0,
		LevelRegulatory: 5.0,
		LevelEmergency:  0.5,
	}
	b, ok := base[urgency]
	if !ok {
		b = 24 * time.Hour
	}
	f, ok := mult[level]
	if !ok {
		f = 1.0
	}
	return time.Duration(float64(b) * f)
}

func approvalProbability(req *Request) float64 {
	prob := 0.8

	if req.MonetaryValue > 500 {
		prob -= 0.2
	} else if req.MonetaryValue > 100 {
		prob -= 0.1
	}

	switch req.Urgency {
	case "critical":
		prob += 0.1
	case "low":
		prob -= 0.1
	}

	if req.Level == LevelExecutive || req.Level == LevelRegulatory {
		prob -= 0.2
	}

	if prob < 0.1 {
		return 0.1
	}
	if prob > 0.95 {
		return 0.95
	}
	return prob
}

var rejectionReasons = []string{
	"Insufficient justification provided",
	"Exceeds authorized spending limits",
	"Alternative lower-cost solution available",
	"Requires additional documentation",
	"Policy violation detected",
	"Needs secondary approval",
	"Insufficient evidence of customer fault",
}

func (m *Manager) rejectionReason(req *Request) string {
	reasons := rejectionReasons
	if req.MonetaryValue > 100 {
		reasons = append(append([]string{}, reasons...),
			"Amount exceeds threshold for this scenario type",
			"Requires detailed cost-benefit analysis")
	}
	return reasons[m.rng.Intn(len(reasons))]
}
