// Package prompts holds the versioned prompt texts sent to the decision
// service. Prompts are registered at init time and looked up by ID, so a
// prompt revision is a code change with an explicit version bump rather
// than an edit in place.
package prompts

// PromptVersion identifies one revision of a prompt.
type PromptVersion string

const (
	PromptV1 PromptVersion = "1.0.0"
	PromptV2 PromptVersion = "2.0.0"
)

// Prompt is one versioned prompt with metadata.
type Prompt struct {
	ID          string // stable identifier, e.g. "coordinator"
	Version     PromptVersion
	Content     string
	Description string
	Tags        []string
	Deprecated  bool // deprecated versions lose GetLatest selection
}
