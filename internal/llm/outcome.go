package llm

// OutcomeKind is the three-way result of one provider invocation.
type OutcomeKind string

const (
	// OutcomeSuccess means the provider returned usable content.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeFailure means the call was attempted and failed: transport
	// error, non-parseable body, or a reply missing the expected content.
	OutcomeFailure OutcomeKind = "failure"
	// OutcomeUnavailable means no credential is configured for the
	// provider, so no call was attempted. Distinct from Failure at
	// logging granularity only; callers see the same absence of content.
	OutcomeUnavailable OutcomeKind = "unavailable"
)

// Outcome captures one provider invocation. Failures are values, never
// raised errors: nothing at this boundary propagates past it.
type Outcome struct {
	Kind     OutcomeKind
	Provider string // "openai", "anthropic", or "" when unavailable
	Text     string // content, only meaningful on success
	Err      error  // cause, only meaningful on failure; log-only detail
}

// OK reports whether the outcome carries usable content.
func (o Outcome) OK() bool { return o.Kind == OutcomeSuccess }
