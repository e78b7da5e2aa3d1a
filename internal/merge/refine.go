package merge

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/llm"
)

// minRefinedLength guards against truncated or empty refinements. A
// genuine rewrite of a merged answer can't plausibly fit in fewer runes;
// anything shorter means the model cut off or deflected, and the
// unrefined merge is the safer answer.
const minRefinedLength = 20

// Refiner asks one designated provider to rewrite a merged answer as a
// single cohesive voice. It is strictly best-effort: every failure mode
// (no client, transport error, implausibly short reply) falls back to the
// unrefined text, and the caller never learns refinement was attempted.
type Refiner struct {
	client llm.Client // nil disables refinement entirely
	logger *zap.Logger
}

// NewRefiner creates a Refiner. client may be nil, in which case Refine
// is the identity function.
func NewRefiner(client llm.Client, logger *zap.Logger) *Refiner {
	return &Refiner{client: client, logger: logger}
}

// Refine returns a single-voice rewrite of merged, or merged unchanged
// when refinement is unavailable, fails, or returns something too short
// to be a real answer.
func (r *Refiner) Refine(ctx context.Context, question, merged string) string {
	if r.client == nil {
		return merged
	}

	refined, err := r.client.Complete(ctx, llm.Request{
		System:      refineSystemPrompt,
		User:        refineUserPrompt(question, merged),
		Temperature: 0.3,
	})
	if err != nil {
		r.logger.Warn("refinement failed, using unrefined merge",
			zap.String("provider", r.client.ProviderName()),
			zap.Error(err),
		)
		return merged
	}

	if utf8.RuneCountInString(refined) < minRefinedLength {
		r.logger.Warn("refinement too short, using unrefined merge",
			zap.String("provider", r.client.ProviderName()),
			zap.Int("length", utf8.RuneCountInString(refined)),
		)
		return merged
	}

	return refined
}

const refineSystemPrompt = `You are an editor. You will receive a user's question and a draft answer that was assembled from two assistants and may repeat itself or shift voice. Rewrite it as one cohesive answer in the same language as the draft. Remove redundancy. Do not add new claims. Reply with the rewritten answer only.`

func refineUserPrompt(question, merged string) string {
	return fmt.Sprintf("Question:\n%s\n\nDraft answer:\n%s", question, merged)
}
