// Package oracle adapts external LLM providers to the engine's decision
// interface: prompt construction, provider transport and reply parsing.
package oracle

import "context"

// Client is the minimal completion surface a provider must offer. The
// adapter builds one system prompt and one user prompt per reasoning turn
// and expects raw text back; everything protocol-specific stays behind
// this interface.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
