// Package llm provides a provider-agnostic interface for the two model
// backends the service fans out to. Both Anthropic (Claude) and OpenAI
// implement the same small interface, so the invocation and merge layers
// never care which backend produced a given answer.
package llm

import "context"

// Request is one fully-formed prompt for a provider call.
// WantJSON is the response-shape hint: when set, the client asks the
// provider for a single JSON object and guarantees the returned string
// is one, or fails.
type Request struct {
	System      string
	User        string
	WantJSON    bool
	MaxTokens   int
	Temperature float32
}

// DefaultMaxTokens caps provider output when the caller doesn't say.
const DefaultMaxTokens = 2048

// Client is the interface for one LLM backend.
//
// Go interface design tip: keep interfaces small. One working method is
// ideal — the bigger the interface, the harder it is to implement and
// mock. Go proverb: "The bigger the interface, the weaker the abstraction."
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	ProviderName() string
	ModelName() string
}
