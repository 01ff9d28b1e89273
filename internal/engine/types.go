package engine

import (
	"context"
	"encoding/json"
	"fmt"
)

// Action is a single tool invocation requested by the oracle.
type Action struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// Decision is the oracle's answer for one reasoning turn: either the next
// tool call, or a finish signal carrying the final resolution plan.
type Decision struct {
	Thought string  // free-text rationale preceding the action
	Action  *Action // nil when the oracle decided to finish
	Plan    string  // final plan text, set only on finish
}

// IsFinish reports whether the decision concludes the session.
func (d Decision) IsFinish() bool { return d.Action == nil }

// Guidance is the pending reflection context handed to the oracle on the
// call immediately after a reflection step. Consumed exactly once.
type Guidance struct {
	Reason      string
	Alternative string // empty when the reflection had no suggested tool
}

// Oracle is the external decision service consulted each reasoning turn.
// Implementations format the history however their backend requires; the
// loop only depends on the Decision contract. A non-nil error is fatal to
// the session (the loop never retries an oracle call).
type Oracle interface {
	Decide(ctx context.Context, problem string, steps []Step, guidance *Guidance) (Decision, error)
}

// Observation statuses. Tool observations carry "ok" or "error"; the
// synthetic reflection step carries "reflection".
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusReflection = "reflection"
)

// Observation is the structured outcome of executing an action, or the
// summary attached to a synthetic reflection step. Tool-specific payload
// lives in Fields and is flattened into the top level when serialized for
// the oracle, so the history reads like the raw tool responses.
type Observation struct {
	ToolName    string         `json:"tool_name,omitempty"`
	Status      string         `json:"status"`
	ErrorCode   string         `json:"error_code,omitempty"`
	Message     string         `json:"message,omitempty"`
	Reason      string         `json:"reason,omitempty"`                // reflection only
	Alternative string         `json:"suggested_alternative,omitempty"` // reflection only
	Fields      map[string]any `json:"-"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

// IsError reports whether the observation carries an explicit failure
// discriminant ("status" == error, or a "success" field set to false).
func (o Observation) IsError() bool {
	if o.Status == StatusError {
		return true
	}
	if v, ok := o.Bool("success"); ok && !v {
		return true
	}
	return false
}

// Bool reads a boolean payload field. The second return is false when the
// field is absent or not a bool.
func (o Observation) Bool(key string) (bool, bool) {
	v, ok := o.Fields[key].(bool)
	return v, ok
}

// Str reads a string payload field.
func (o Observation) Str(key string) (string, bool) {
	v, ok := o.Fields[key].(string)
	return v, ok
}

// Float reads a numeric payload field. Accepts float64 and json.Number
// since observations may round-trip through encoding/json.
func (o Observation) Float(key string) (float64, bool) {
	switch v := o.Fields[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// MarshalJSON flattens Fields into the top-level object.
func (o Observation) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(o.Fields)+6)
	for k, v := range o.Fields {
		m[k] = v
	}
	if o.ToolName != "" {
		m["tool_name"] = o.ToolName
	}
	m["status"] = o.Status
	if o.ErrorCode != "" {
		m["error_code"] = o.ErrorCode
	}
	if o.Message != "" {
		m["message"] = o.Message
	}
	if o.Reason != "" {
		m["reason"] = o.Reason
	}
	if o.Alternative != "" {
		m["suggested_alternative"] = o.Alternative
	}
	if o.Timestamp != "" {
		m["timestamp"] = o.Timestamp
	}
	return json.Marshal(m)
}

// ErrorObservation builds the uniform failure shape tools and the executor
// return instead of raising.
func ErrorObservation(toolName, code, message string) Observation {
	return Observation{
		ToolName:  toolName,
		Status:    StatusError,
		ErrorCode: code,
		Message:   message,
	}
}

// Validate checks structural soundness of an action before execution.
func (a *Action) Validate() error {
	if a == nil {
		return fmt.Errorf("nil action")
	}
	if a.ToolName == "" {
		return fmt.Errorf("action missing tool_name")
	}
	return nil
}
