package engine

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc executes one simulated logistics operation. Implementations
// report domain failures through the returned observation, never by
// panicking; ctx covers the tool's simulated latency.
type ToolFunc func(ctx context.Context, params map[string]any) Observation

// ToolMetadata categorizes a tool for scenario filtering and approval
// routing.
type ToolMetadata struct {
	Verticals         []string // e.g. ["GrabExpress"], ["All"]
	Cost              string   // "low", "medium", "high"
	ApprovalThreshold float64  // monetary ceiling before approval is required (0 = none)
}

type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Fn          ToolFunc
	Metadata    ToolMetadata
}

// ValidateParams validates the provided parameters against the tool's JSON
// schema. Returns a *ToolValidationError when the document is well-formed
// but invalid.
func (t Tool) ValidateParams(params map[string]any) error {
	if t.SchemaJSON == "" {
		return nil
	}
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(params)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, err := range result.Errors() {
			errorMsgs = append(errorMsgs, err.String())
		}
		return &ToolValidationError{
			ToolName: t.Name,
			Errors:   errorMsgs,
		}
	}

	return nil
}

// ToolRegistry is the fixed name -> operation mapping shared (read-only)
// across sessions.
type ToolRegistry map[string]Tool

// Lookup returns the named tool.
func (r ToolRegistry) Lookup(name string) (Tool, bool) {
	t, ok := r[name]
	return t, ok
}

// Invoke runs the named tool and normalizes every failure mode into an
// observation: unknown names, invalid parameters, domain failures and even
// tool panics all come back as status="error" records. It never returns a
// Go error, so the loop can route any outcome through reflection.
func (r ToolRegistry) Invoke(ctx context.Context, name string, params map[string]any) (obs Observation) {
	tool, ok := r[name]
	if !ok {
		return ErrorObservation(name, "UNKNOWN_TOOL", fmt.Sprintf("unknown tool: %s", name))
	}
	if err := tool.ValidateParams(params); err != nil {
		return ErrorObservation(name, "INVALID_PARAM", err.Error())
	}
	defer func() {
		if p := recover(); p != nil {
			obs = ErrorObservation(name, "TOOL_PANIC", fmt.Sprintf("tool %s panicked: %v", name, p))
		}
	}()
	return tool.Fn(ctx, params)
}

// Names returns the registered tool names (unordered).
func (r ToolRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// FilterByNames returns a new registry containing only the listed tools.
// Unknown names are ignored. Used by the scenario runner to restrict a
// session to a scenario's allowed tool set.
func (r ToolRegistry) FilterByNames(names []string) ToolRegistry {
	filtered := make(ToolRegistry, len(names))
	for _, name := range names {
		if tool, ok := r[name]; ok {
			filtered[name] = tool
		}
	}
	return filtered
}

// FilterByVertical returns a new registry with tools serving the given
// vertical (tools tagged "All" always qualify).
func (r ToolRegistry) FilterByVertical(vertical string) ToolRegistry {
	filtered := make(ToolRegistry)
	for name, tool := range r {
		for _, v := range tool.Metadata.Verticals {
			if v == vertical || v == "All" {
				filtered[name] = tool
				break
			}
		}
	}
	return filtered
}
