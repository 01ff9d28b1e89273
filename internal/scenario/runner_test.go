package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/project-synapse/synapse/internal/engine"
	"github.com/project-synapse/synapse/internal/tools"
)

const sampleCSV = `id,vertical,title,description,initial_state,allowed_tools,success_criteria,escalation_threshold,seed
SC-001,GrabExpress,Unreachable recipient,Parcel recipient is not answering,driver waiting at door,"contact_recipient_via_chat,suggest_safe_drop_off,find_nearby_locker",parcel delivered or secured,2,42
SC-002,GrabFood,Damaged packaging dispute,Customer reports spilled order,order delivered,,refund or voucher issued,3,
SC-003,GrabCar,Road hazard,Flash flooding on the route,trip in progress,"check_traffic,reroute_driver_to_safe_location,notify_passenger_and_driver",driver and passenger safe,1,7
`

func TestParseScenarios(t *testing.T) {
	runner, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if runner.Len() != 3 {
		t.Fatalf("loaded %d scenarios, want 3", runner.Len())
	}

	sc, ok := runner.Get("SC-001")
	if !ok {
		t.Fatal("SC-001 missing")
	}
	if sc.Vertical != "GrabExpress" || sc.EscalationThreshold != 2 {
		t.Errorf("unexpected scenario: %+v", sc)
	}
	if len(sc.AllowedTools) != 3 || sc.AllowedTools[1] != "suggest_safe_drop_off" {
		t.Errorf("allowed_tools = %v", sc.AllowedTools)
	}
	if !sc.HasSeed || sc.SeedOr(99) != 42 {
		t.Errorf("seed = %d (has=%v)", sc.Seed, sc.HasSeed)
	}

	// Blank seed column falls back to the caller's seed.
	sc2, _ := runner.Get("SC-002")
	if sc2.HasSeed || sc2.SeedOr(99) != 99 {
		t.Errorf("SC-002 seed handling: %+v", sc2)
	}

	list := runner.List()
	if len(list) != 3 || list[0].ID != "SC-001" || list[2].ID != "SC-003" {
		t.Errorf("List order: %v", list)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"missing id column", "title,description\na,b\n"},
		{"blank id", "id,title\n,abandoned\n"},
		{"duplicate id", "id,title\nSC-1,a\nSC-1,b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRestrictNarrowsCatalog(t *testing.T) {
	runner, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reg := tools.Registry(tools.NewSimulator(1))

	sc, _ := runner.Get("SC-001")
	scoped := sc.Restrict(reg)
	if len(scoped) != 3 {
		t.Errorf("scoped catalog has %d tools, want 3", len(scoped))
	}
	if _, ok := scoped.Lookup("issue_instant_refund"); ok {
		t.Error("restricted catalog still holds issue_instant_refund")
	}
	if !sc.ToolAllowed("find_nearby_locker") || sc.ToolAllowed("cancel_booking") {
		t.Error("ToolAllowed disagrees with allowed_tools")
	}

	// No allowed_tools column means the full catalog stays available.
	open, _ := runner.Get("SC-002")
	if got := open.Restrict(reg); len(got) != len(reg) {
		t.Errorf("unrestricted scenario trimmed catalog to %d tools", len(got))
	}
	if !open.ToolAllowed("anything_at_all") {
		t.Error("unrestricted scenario should allow any tool")
	}
}

func TestProblemRendersStateAndCriteria(t *testing.T) {
	runner, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sc, _ := runner.Get("SC-003")
	problem := sc.Problem()
	for _, want := range []string{"Flash flooding", "Initial state: trip in progress", "Success criteria: driver and passenger safe"} {
		if !strings.Contains(problem, want) {
			t.Errorf("problem missing %q:\n%s", want, problem)
		}
	}
}

func TestRestrictedCatalogStillRecoverable(t *testing.T) {
	// Calling a tool outside the scenario's allowance must come back as an
	// error observation, never a crash.
	runner, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sc, _ := runner.Get("SC-003")
	scoped := sc.Restrict(tools.Registry(tools.NewSimulator(7)))

	obs := scoped.Invoke(context.Background(), "issue_instant_refund", map[string]any{"order_id": "O1", "amount": 5.0})
	if obs.Status != engine.StatusError || obs.ErrorCode != "UNKNOWN_TOOL" {
		t.Errorf("disallowed tool observation = %+v", obs)
	}
}
