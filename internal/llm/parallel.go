package llm

import (
	"context"
	"sync"
)

// InvokeBoth sends the same request to both clients concurrently and
// waits for both to settle. The returned pair is positional: the first
// outcome always belongs to the first client, whichever finished first.
//
// This is a settle-all join, not a race and not a fail-fast group.
// errgroup would cancel the sibling call on first error, which is exactly
// wrong here: one provider failing fast must not abort the other one
// still thinking. A plain WaitGroup gives each goroutine its own outcome
// slot, so there is no shared state to lock.
//
// A nil client means no credential was configured; it settles immediately
// as Unavailable without spawning anything.
func InvokeBoth(ctx context.Context, first, second Client, req Request) (Outcome, Outcome) {
	var wg sync.WaitGroup
	var a, b Outcome

	wg.Add(2)
	go func() {
		defer wg.Done()
		a = invokeOne(ctx, first, req)
	}()
	go func() {
		defer wg.Done()
		b = invokeOne(ctx, second, req)
	}()
	wg.Wait()

	return a, b
}

// invokeOne performs a single attempt against one client. No retries:
// a failed call is reported as Failure and the request moves on with
// whatever the other provider produced.
func invokeOne(ctx context.Context, client Client, req Request) Outcome {
	if client == nil {
		return Outcome{Kind: OutcomeUnavailable}
	}

	text, err := client.Complete(ctx, req)
	if err != nil {
		return Outcome{
			Kind:     OutcomeFailure,
			Provider: client.ProviderName(),
			Err:      err,
		}
	}

	return Outcome{
		Kind:     OutcomeSuccess,
		Provider: client.ProviderName(),
		Text:     text,
	}
}
