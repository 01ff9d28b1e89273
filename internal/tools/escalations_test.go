package tools

import (
	"testing"

	"github.com/project-synapse/synapse/internal/engine"
)

func obsWith(fields map[string]any) engine.Observation {
	return engine.Observation{Status: engine.StatusOK, Fields: fields}
}

func TestContactChainLinks(t *testing.T) {
	table := DefaultEscalations()

	chain := []struct {
		tool   string
		fields map[string]any
		want   string
	}{
		{"contact_recipient_via_chat", map[string]any{"contact_successful": false}, "suggest_safe_drop_off"},
		{"suggest_safe_drop_off", map[string]any{"safe_option_available": false}, "find_nearby_locker"},
		{"find_nearby_locker", map[string]any{"lockers_found": false}, "schedule_redelivery"},
		{"schedule_redelivery", map[string]any{"scheduled": false}, "contact_sender"},
	}
	for _, link := range chain {
		rule, ok := table.Evaluate(link.tool, obsWith(link.fields))
		if !ok {
			t.Errorf("%s: no rule matched", link.tool)
			continue
		}
		if rule.Alternative != link.want {
			t.Errorf("%s -> %s, want %s", link.tool, rule.Alternative, link.want)
		}
	}
}

func TestTrafficSeverityOrdering(t *testing.T) {
	table := DefaultEscalations()

	tests := []struct {
		level string
		want  string
	}{
		{"hazardous", "reroute_driver_to_safe_location"},
		{"severe", "re_route_driver"},
		{"major", "calculate_alternative_route"},
	}
	for _, tt := range tests {
		rule, ok := table.Evaluate("check_traffic", obsWith(map[string]any{"incident_level": tt.level}))
		if !ok {
			t.Errorf("level %s: no rule matched", tt.level)
			continue
		}
		if rule.Alternative != tt.want {
			t.Errorf("level %s -> %s, want %s", tt.level, rule.Alternative, tt.want)
		}
	}

	for _, level := range []string{"none", "minor"} {
		if _, ok := table.Evaluate("check_traffic", obsWith(map[string]any{"incident_level": level})); ok {
			t.Errorf("level %s should not escalate", level)
		}
	}
}

func TestSuccessfulObservationsDoNotEscalate(t *testing.T) {
	table := DefaultEscalations()

	tests := []struct {
		tool   string
		fields map[string]any
	}{
		{"contact_recipient_via_chat", map[string]any{"contact_successful": true}},
		{"find_nearby_locker", map[string]any{"lockers_found": true}},
		{"get_merchant_status", map[string]any{"open": true}},
		{"analyze_evidence", map[string]any{"confidence": 0.9}},
		{"get_driver_status", map[string]any{"state": "on_trip"}},
		{"verify_address_with_customer", map[string]any{"address_confirmed": true}},
	}
	for _, tt := range tests {
		if rule, ok := table.Evaluate(tt.tool, obsWith(tt.fields)); ok {
			t.Errorf("%s escalated on success: %+v", tt.tool, rule)
		}
	}
}

func TestDisputeRules(t *testing.T) {
	table := DefaultEscalations()

	rule, ok := table.Evaluate("analyze_evidence", obsWith(map[string]any{"confidence": 0.3}))
	if !ok || rule.Alternative != "issue_partial_refund" {
		t.Errorf("low confidence rule = (%+v, %v)", rule, ok)
	}

	rule, ok = table.Evaluate("issue_instant_refund", obsWith(map[string]any{"requires_approval": true}))
	if !ok || rule.Alternative != "issue_partial_refund" {
		t.Errorf("approval rule = (%+v, %v)", rule, ok)
	}
}

func TestAddressVerificationRules(t *testing.T) {
	table := DefaultEscalations()

	rule, ok := table.Evaluate("verify_address_with_customer", obsWith(map[string]any{"address_confirmed": false}))
	if !ok || rule.Alternative != "contact_sender" {
		t.Errorf("unconfirmed rule = (%+v, %v)", rule, ok)
	}

	rule, ok = table.Evaluate("verify_address_with_customer", obsWith(map[string]any{
		"address_confirmed": true,
		"corrected_address": map[string]any{"line1": "1 Main St Apt 2"},
	}))
	if !ok || rule.Alternative != "re_route_driver" {
		t.Errorf("corrected rule = (%+v, %v)", rule, ok)
	}
}

func TestEveryRuleTargetsARegisteredTool(t *testing.T) {
	reg := Registry(NewSimulator(1))
	for tool, rules := range DefaultEscalations() {
		if _, ok := reg.Lookup(tool); !ok {
			t.Errorf("trigger tool %s not in catalog", tool)
		}
		for _, rule := range rules {
			if rule.Alternative == "" {
				continue
			}
			if _, ok := reg.Lookup(rule.Alternative); !ok {
				t.Errorf("%s escalates to unregistered tool %s", tool, rule.Alternative)
			}
		}
	}
}
