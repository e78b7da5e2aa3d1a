// Package service contains the core reconciliation pipeline. For each
// request it fans out to both model backends in parallel, tolerates
// either one failing, and merges what came back:
//
//	invoke both → decode → merge (structured or conversational) → refine
//
// Partial failure is the normal case, not the exception. The only error
// a caller ever sees is ErrAllProvidersFailed, raised when neither
// backend produced anything usable.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rebeen/zanist/internal/llm"
	"github.com/rebeen/zanist/internal/merge"
	"github.com/rebeen/zanist/internal/model"
	"github.com/rebeen/zanist/internal/storage"
)

// ErrAllProvidersFailed is the aggregate failure: no provider produced a
// usable result. Per-provider detail stays in the logs; callers check
// with errors.Is and get no finer granularity than this.
var ErrAllProvidersFailed = errors.New("all providers failed")

// AnalysisService is the public surface of the pipeline. Both operations
// are pure functions of their inputs plus the two clients: no state is
// carried across requests beyond the (immutable) client credentials and
// the audit log.
type AnalysisService struct {
	primary   llm.Client // nil when no credential is configured
	secondary llm.Client
	refiner   *merge.Refiner
	limiter   *rate.Limiter // cost control in front of the providers, may be nil
	calls     storage.ProviderCallRepository // audit only, may be nil
	logger    *zap.Logger
}

// NewAnalysisService wires the pipeline. Any client may be nil: a
// missing credential degrades that provider to permanently unavailable
// rather than failing startup (a nil refineClient just disables
// refinement). calls may be nil to disable the audit log.
func NewAnalysisService(
	primary llm.Client,
	secondary llm.Client,
	refineClient llm.Client,
	ratePerMinute int,
	calls storage.ProviderCallRepository,
	logger *zap.Logger,
) *AnalysisService {
	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 2)
	}

	s := &AnalysisService{
		primary:   primary,
		secondary: secondary,
		limiter:   limiter,
		calls:     calls,
		logger:    logger,
	}
	s.refiner = merge.NewRefiner(s.record(refineClient, model.CallRefine), logger)
	return s
}

// AnalyzeStructured runs the structured-analysis pipeline: both providers
// asked for a JSON analysis, successful payloads decoded defensively and
// union-merged. Returns ErrAllProvidersFailed when neither provider
// yields a decodable analysis.
func (s *AnalysisService) AnalyzeStructured(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if err := s.waitLimiter(ctx); err != nil {
		return nil, err
	}

	prompt := llm.Request{
		System:      analyzeSystemPrompt,
		User:        analyzeUserPrompt(req),
		WantJSON:    true,
		Temperature: 0.2,
	}

	first, second := llm.InvokeBoth(ctx,
		s.record(s.primary, model.CallAnalyze),
		s.record(s.secondary, model.CallAnalyze),
		prompt,
	)

	merged, ok := merge.Structured(s.decodeAnalysis(first), s.decodeAnalysis(second))
	if !ok {
		s.logOutcomes("analyze", first, second)
		return nil, ErrAllProvidersFailed
	}

	return merged, nil
}

// Chat runs the conversational pipeline: both providers answer the user
// in free text, the merger arbitrates by language and length, and when
// both contributed the refiner rewrites the combined text as one voice.
func (s *AnalysisService) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResult, error) {
	if err := s.waitLimiter(ctx); err != nil {
		return nil, err
	}

	prompt := llm.Request{
		System:      chatSystemPrompt,
		User:        chatUserPrompt(req.Message, req.Context),
		Temperature: 0.7,
	}

	first, second := llm.InvokeBoth(ctx,
		s.record(s.primary, model.CallChat),
		s.record(s.secondary, model.CallChat),
		prompt,
	)

	// Positional collection keeps the first provider's answer first in
	// any concatenation, regardless of which call finished first.
	answers := make([]string, 0, 2)
	for _, outcome := range []llm.Outcome{first, second} {
		if outcome.OK() {
			answers = append(answers, outcome.Text)
		}
	}

	merged, ok := merge.Conversation(req.Message, answers)
	if !ok {
		s.logOutcomes("chat", first, second)
		return nil, ErrAllProvidersFailed
	}

	// A single-source answer is already one voice; refinement only earns
	// its extra call when two answers were reconciled.
	if len(answers) == 2 {
		merged = s.refiner.Refine(ctx, req.Message, merged)
	}

	return &model.ChatResult{
		Message:   merged,
		Providers: len(answers),
	}, nil
}

// decodeAnalysis turns a successful outcome into an analysis payload.
// Anything short of valid JSON demotes the outcome to a failure; missing
// fields default to empty containers rather than failing, because
// provider output is untrusted but still useful when partial.
func (s *AnalysisService) decodeAnalysis(outcome llm.Outcome) *model.AnalysisResult {
	if !outcome.OK() {
		return nil
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(outcome.Text), &result); err != nil {
		s.logger.Warn("provider returned undecodable analysis",
			zap.String("provider", outcome.Provider),
			zap.Error(err),
		)
		return nil
	}

	if result.Insights == nil {
		result.Insights = []string{}
	}
	if result.Explanations == nil {
		result.Explanations = []string{}
	}
	if result.Charts == nil {
		result.Charts = []model.Chart{}
	}

	return &result
}

// waitLimiter blocks until the shared provider budget allows another
// fan-out. Blocks count against the calling request only.
func (s *AnalysisService) waitLimiter(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// logOutcomes records why a request produced an aggregate failure.
// This is the only place per-provider failure detail surfaces, and it
// surfaces into logs, never into the API contract.
func (s *AnalysisService) logOutcomes(op string, first, second llm.Outcome) {
	for _, outcome := range []llm.Outcome{first, second} {
		switch outcome.Kind {
		case llm.OutcomeFailure:
			s.logger.Warn("provider call failed",
				zap.String("op", op),
				zap.String("provider", outcome.Provider),
				zap.Error(outcome.Err),
			)
		case llm.OutcomeUnavailable:
			s.logger.Debug("provider unavailable (no credential)",
				zap.String("op", op),
			)
		}
	}
}

// record wraps a client so each call lands one audit row. A nil client
// stays nil (the invoker reads that as Unavailable), and a nil repository
// disables recording without a separate code path at the call sites.
func (s *AnalysisService) record(client llm.Client, kind model.CallKind) llm.Client {
	if client == nil || s.calls == nil {
		return client
	}
	return &recordedClient{Client: client, kind: kind, calls: s.calls, logger: s.logger}
}

// recordedClient decorates an llm.Client with audit logging. The embedded
// interface forwards ProviderName and ModelName for free.
type recordedClient struct {
	llm.Client
	kind   model.CallKind
	calls  storage.ProviderCallRepository
	logger *zap.Logger
}

func (c *recordedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	start := time.Now()
	text, err := c.Client.Complete(ctx, req)

	call := &model.ProviderCall{
		Provider:   c.Client.ProviderName(),
		Model:      c.Client.ModelName(),
		Kind:       c.kind,
		Success:    err == nil,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if recErr := c.calls.Create(ctx, call); recErr != nil {
		// Audit is best-effort; losing a row must not fail the request.
		c.logger.Error("recording provider call", zap.Error(recErr))
	}

	return text, err
}
