package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/project-synapse/synapse/internal/engine"
	"github.com/project-synapse/synapse/internal/prompts"
)

// Adapter implements engine.Oracle over a Client: it renders the session
// history into the prompt protocol and parses the reply into a decision.
type Adapter struct {
	Client Client
	System string
}

// NewAdapter builds an adapter whose system prompt is the coordinator
// prompt extended with the registry's tool descriptions.
func NewAdapter(client Client, tools engine.ToolRegistry) (*Adapter, error) {
	base, err := prompts.DefaultRegistry().GetLatest(prompts.CoordinatorPromptID)
	if err != nil {
		return nil, fmt.Errorf("coordinator prompt: %w", err)
	}
	return &Adapter{
		Client: client,
		System: base.Content + "\n\nAVAILABLE TOOLS:\n" + describeTools(tools),
	}, nil
}

// Decide implements engine.Oracle.
func (a *Adapter) Decide(ctx context.Context, problem string, steps []engine.Step, guidance *engine.Guidance) (engine.Decision, error) {
	user := "Problem: " + problem + "\n\n" +
		"Context (previous steps):\n" + formatHistory(steps) +
		guidanceBlock(guidance) + "\n\n" +
		"Decide the next best single tool call."

	text, err := a.Client.Complete(ctx, a.System, user)
	if err != nil {
		return engine.Decision{}, err
	}
	return parseDecision(text)
}

// formatHistory renders previous steps succinctly for the model context.
func formatHistory(steps []engine.Step) string {
	if len(steps) == 0 {
		return "(no prior steps)"
	}
	var b strings.Builder
	for i, st := range steps {
		if i > 0 {
			b.WriteString("\n\n")
		}
		act := "null"
		if st.Action != nil {
			raw, _ := json.Marshal(st.Action)
			act = string(raw)
		}
		obs := "null"
		if st.Observation != nil {
			raw, _ := json.Marshal(st.Observation)
			obs = string(raw)
		}
		fmt.Fprintf(&b, "Step %d:\n- Thought: %s\n- Action: %s\n- Observation: %s", i+1, st.Thought, act, obs)
	}
	return b.String()
}

func guidanceBlock(g *engine.Guidance) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nREFLECTION GUIDANCE:\n")
	fmt.Fprintf(&b, "Previous approach encountered an issue: %s\n", g.Reason)
	if g.Alternative != "" {
		fmt.Fprintf(&b, "Consider using tool: %s\n", g.Alternative)
	}
	b.WriteString("Please adapt your approach accordingly.\n")
	return b.String()
}

func describeTools(tools engine.ToolRegistry) string {
	names := tools.Names()
	// Stable prompt text across runs.
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		t := tools[name]
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	return b.String()
}
