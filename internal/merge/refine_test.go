package merge

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/llm"
)

// stubClient returns a canned reply or error.
type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Complete(_ context.Context, _ llm.Request) (string, error) {
	return s.reply, s.err
}
func (s *stubClient) ProviderName() string { return "stub" }
func (s *stubClient) ModelName() string    { return "stub-model" }

const mergedDraft = "Answer from one assistant.\n\nAnswer from the other assistant."

func TestRefine_AcceptsPlausibleRewrite(t *testing.T) {
	r := NewRefiner(&stubClient{reply: "One combined answer covering both assistants' points."}, zap.NewNop())

	got := r.Refine(context.Background(), "question?", mergedDraft)
	if got != "One combined answer covering both assistants' points." {
		t.Errorf("got %q, want the refined text", got)
	}
}

// A 10-character reply is an anti-truncation guard case: it must be
// rejected and the caller must get the merged text unchanged.
func TestRefine_RejectsTooShort(t *testing.T) {
	r := NewRefiner(&stubClient{reply: "too short."}, zap.NewNop())

	got := r.Refine(context.Background(), "question?", mergedDraft)
	if got != mergedDraft {
		t.Errorf("got %q, want the unrefined merge", got)
	}
}

func TestRefine_FailureFallsBack(t *testing.T) {
	r := NewRefiner(&stubClient{err: errors.New("transport down")}, zap.NewNop())

	got := r.Refine(context.Background(), "question?", mergedDraft)
	if got != mergedDraft {
		t.Errorf("got %q, want the unrefined merge", got)
	}
}

func TestRefine_NilClientIsIdentity(t *testing.T) {
	r := NewRefiner(nil, zap.NewNop())

	got := r.Refine(context.Background(), "question?", mergedDraft)
	if got != mergedDraft {
		t.Errorf("got %q, want the input unchanged", got)
	}
}
