package oracle

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/project-synapse/synapse/internal/engine"
)

// The oracle replies in a fixed two-line protocol:
//
//	Thought: free-text reasoning
//	Action: {"tool_name": "...", "parameters": {...}}
//
// Finishing is expressed through the "finish" pseudo-tool whose parameters
// carry the final plan.

var thoughtRe = regexp.MustCompile(`(?is)Thought\s*:\s*(.*?)\s*Action\s*:\s*`)
var anyObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

type rawAction struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// parseDecision extracts the decision from a raw model reply. A reply
// without a recoverable action JSON yields a *engine.DecisionParseError.
func parseDecision(text string) (engine.Decision, error) {
	var thought string
	after := text
	if m := thoughtRe.FindStringSubmatchIndex(text); m != nil {
		thought = strings.TrimSpace(text[m[2]:m[3]])
		after = text[m[1]:]
	}

	block, ok := firstJSONObject(after)
	if !ok {
		// Fallback: any JSON object anywhere in the reply.
		block = anyObjectRe.FindString(text)
		if block == "" {
			return engine.Decision{}, &engine.DecisionParseError{Raw: text}
		}
	}

	var raw rawAction
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return engine.Decision{}, &engine.DecisionParseError{Raw: text}
	}
	if raw.ToolName == "" {
		return engine.Decision{}, &engine.DecisionParseError{Raw: text}
	}

	if raw.ToolName == "finish" {
		plan, _ := raw.Parameters["final_plan"].(string)
		if plan == "" {
			// Some models use "plan"; accept both.
			plan, _ = raw.Parameters["plan"].(string)
		}
		return engine.Decision{Thought: thought, Plan: plan}, nil
	}

	params := raw.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return engine.Decision{
		Thought: thought,
		Action:  &engine.Action{ToolName: raw.ToolName, Parameters: params},
	}, nil
}

// firstJSONObject scans for the first balanced {...} block. Brace counting
// is enough here: tool parameters never embed unbalanced braces in strings
// in practice, and the regex fallback covers the rest.
func firstJSONObject(s string) (string, bool) {
	depth := 0
	start := -1
	for i, ch := range s {
		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					block := s[start : i+1]
					if json.Valid([]byte(block)) {
						return block, true
					}
					return "", false
				}
			}
		}
	}
	return "", false
}
