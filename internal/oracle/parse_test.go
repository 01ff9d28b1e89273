package oracle

import (
	"errors"
	"testing"

	"github.com/project-synapse/synapse/internal/engine"
)

func TestParseDecisionAction(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTool   string
		wantThought string
	}{
		{
			"canonical",
			"Thought: Driver reports the recipient is unreachable.\nAction: {\"tool_name\": \"contact_recipient_via_chat\", \"parameters\": {\"order_id\": \"ORD_1\"}}",
			"contact_recipient_via_chat",
			"Driver reports the recipient is unreachable.",
		},
		{
			"prose after the json",
			"Thought: check traffic first\nAction: {\"tool_name\": \"check_traffic\", \"parameters\": {\"route_id\": \"R1\"}}\nI will wait for the result.",
			"check_traffic",
			"check traffic first",
		},
		{
			"missing thought",
			"Action: {\"tool_name\": \"get_order_details\", \"parameters\": {\"order_id\": \"ORD_2\"}}",
			"get_order_details",
			"",
		},
		{
			"no action marker at all",
			"{\"tool_name\": \"get_order_details\", \"parameters\": {}}",
			"get_order_details",
			"",
		},
		{
			"nested parameters",
			"Thought: reroute\nAction: {\"tool_name\": \"re_route_driver\", \"parameters\": {\"new_route\": {\"description\": \"via bridge\"}}}",
			"re_route_driver",
			"reroute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := parseDecision(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if dec.IsFinish() {
				t.Fatal("unexpected finish")
			}
			if dec.Action.ToolName != tt.wantTool {
				t.Errorf("tool = %q, want %q", dec.Action.ToolName, tt.wantTool)
			}
			if dec.Thought != tt.wantThought {
				t.Errorf("thought = %q, want %q", dec.Thought, tt.wantThought)
			}
			if dec.Action.Parameters == nil {
				t.Error("parameters must never be nil")
			}
		})
	}
}

func TestParseDecisionFinish(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"final_plan key",
			"Thought: all done\nAction: {\"tool_name\": \"finish\", \"parameters\": {\"final_plan\": \"Parcel redelivered next morning.\"}}",
			"Parcel redelivered next morning.",
		},
		{
			"plan key accepted",
			"Thought: done\nAction: {\"tool_name\": \"finish\", \"parameters\": {\"plan\": \"Voucher issued.\"}}",
			"Voucher issued.",
		},
		{
			"missing plan yields empty",
			"Thought: done\nAction: {\"tool_name\": \"finish\", \"parameters\": {}}",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := parseDecision(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !dec.IsFinish() {
				t.Fatal("expected finish")
			}
			if dec.Plan != tt.want {
				t.Errorf("plan = %q, want %q", dec.Plan, tt.want)
			}
		})
	}
}

func TestParseDecisionMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain prose", "I think we should probably contact the customer somehow."},
		{"empty", ""},
		{"unbalanced json", "Action: {\"tool_name\": \"check_traffic\", \"parameters\": {"},
		{"json without tool_name", "Action: {\"parameters\": {\"order_id\": \"ORD_1\"}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDecision(tt.text)
			if err == nil {
				t.Fatal("expected parse error")
			}
			var parseErr *engine.DecisionParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T", err)
			}
		})
	}
}
