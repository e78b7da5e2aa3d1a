package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/llm"
	"github.com/rebeen/zanist/internal/model"
	"github.com/rebeen/zanist/internal/storage"
)

// fakeClient is a canned llm.Client. calls counts invocations so tests
// can assert whether refinement actually ran.
type fakeClient struct {
	name  string
	reply string
	err   error
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeClient) Complete(ctx context.Context, _ llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeClient) ProviderName() string { return f.name }
func (f *fakeClient) ModelName() string    { return f.name + "-model" }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memCalls is an in-memory ProviderCallRepository.
type memCalls struct {
	mu   sync.Mutex
	rows []model.ProviderCall
}

func (m *memCalls) Create(_ context.Context, call *model.ProviderCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *call)
	return nil
}

func (m *memCalls) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memCalls) Stats(_ context.Context) ([]storage.CallStats, error) {
	return nil, nil
}

func newService(primary, secondary, refine llm.Client, calls storage.ProviderCallRepository) *AnalysisService {
	return NewAnalysisService(primary, secondary, refine, 0, calls, zap.NewNop())
}

// analysisJSON builds a provider payload with n disjoint charts.
func analysisJSON(prefix string, n int) string {
	charts := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			charts += ","
		}
		charts += fmt.Sprintf(`{"id":"%s-%d","title":"t","type":"bar","labels":["x"],"datasets":[{"label":"s","values":[1]}]}`, prefix, i)
	}
	return fmt.Sprintf(`{"summary":"%s summary","insights":["%s insight"],"explanations":[],"charts":[%s]}`, prefix, prefix, charts)
}

var sampleRequest = model.AnalysisRequest{
	Tables: []model.Table{{
		Name:    "sales",
		Columns: []string{"month", "amount"},
		Rows: []map[string]any{
			{"month": "jan", "amount": 100.0},
			{"month": "feb", "amount": 130.0},
		},
	}},
}

// End-to-end union property: both providers succeed with disjoint chart
// lists of 3 and 4, the merged result has exactly 7 charts with the
// first provider's 3 leading.
func TestAnalyzeStructured_MergesDisjointCharts(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", reply: analysisJSON("a", 3)},
		&fakeClient{name: "anthropic", reply: analysisJSON("b", 4)},
		nil, nil,
	)

	result, err := svc.AnalyzeStructured(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Charts) != 7 {
		t.Fatalf("charts = %d, want 7", len(result.Charts))
	}
	wantIDs := []string{"a-1", "a-2", "a-3", "b-1", "b-2", "b-3", "b-4"}
	for i, chart := range result.Charts {
		if chart.ID != wantIDs[i] {
			t.Errorf("chart[%d].ID = %s, want %s", i, chart.ID, wantIDs[i])
		}
	}
	if len(result.Insights) != 2 {
		t.Errorf("insights = %d, want 2", len(result.Insights))
	}
}

// A provider that fails instantly must not prevent the slower provider's
// eventual success from reaching the merge.
func TestAnalyzeStructured_SlowSuccessSurvivesFastFailure(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", err: errors.New("503 from upstream")},
		&fakeClient{name: "anthropic", reply: analysisJSON("b", 2), delay: 40 * time.Millisecond},
		nil, nil,
	)

	result, err := svc.AnalyzeStructured(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Charts) != 2 || result.Summary != "b summary" {
		t.Errorf("merged result = %+v, want the delayed provider's analysis", result)
	}
}

// Undecodable JSON from one provider demotes it to a failure; the other
// provider's payload still comes through alone.
func TestAnalyzeStructured_UndecodablePayloadDemotedToFailure(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", reply: "this is not json"},
		&fakeClient{name: "anthropic", reply: analysisJSON("b", 1)},
		nil, nil,
	)

	result, err := svc.AnalyzeStructured(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "b summary" || len(result.Charts) != 1 {
		t.Errorf("result = %+v, want only the decodable provider's content", result)
	}
}

func TestAnalyzeStructured_BothFailedIsAggregateFailure(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", err: errors.New("down")},
		&fakeClient{name: "anthropic", err: errors.New("also down")},
		nil, nil,
	)

	_, err := svc.AnalyzeStructured(context.Background(), sampleRequest)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("err = %v, want ErrAllProvidersFailed", err)
	}
}

func TestAnalyzeStructured_BothUnavailableIsAggregateFailure(t *testing.T) {
	svc := newService(nil, nil, nil, nil)

	_, err := svc.AnalyzeStructured(context.Background(), sampleRequest)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("err = %v, want ErrAllProvidersFailed", err)
	}
}

func TestChat_TwoAnswersAreRefined(t *testing.T) {
	refine := &fakeClient{name: "openai", reply: "One polished answer that reads as a single voice."}
	svc := newService(
		&fakeClient{name: "openai", reply: "First answer with some overlap."},
		&fakeClient{name: "anthropic", reply: "Second answer with some overlap."},
		refine, nil,
	)

	result, err := svc.Chat(context.Background(), model.ChatRequest{Message: "explain my data"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Providers != 2 {
		t.Errorf("providers = %d, want 2", result.Providers)
	}
	if result.Message != "One polished answer that reads as a single voice." {
		t.Errorf("message = %q, want the refined text", result.Message)
	}
	if refine.callCount() != 1 {
		t.Errorf("refine calls = %d, want 1", refine.callCount())
	}
}

// A single-source answer is returned verbatim and skips refinement.
func TestChat_SingleAnswerSkipsRefinement(t *testing.T) {
	refine := &fakeClient{name: "openai", reply: "should never be used"}
	svc := newService(
		&fakeClient{name: "openai", err: errors.New("down")},
		&fakeClient{name: "anthropic", reply: "The one good answer."},
		refine, nil,
	)

	result, err := svc.Chat(context.Background(), model.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "The one good answer." || result.Providers != 1 {
		t.Errorf("result = %+v, want the single answer verbatim", result)
	}
	if refine.callCount() != 0 {
		t.Errorf("refine calls = %d, want 0", refine.callCount())
	}
}

// Refinement failing must never fail the request: the unrefined merge is
// served instead.
func TestChat_RefinementFailureFallsBack(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", reply: "First answer."},
		&fakeClient{name: "anthropic", reply: "Second answer."},
		&fakeClient{name: "openai", err: errors.New("refine down")},
		nil,
	)

	result, err := svc.Chat(context.Background(), model.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "First answer.\n\nSecond answer." {
		t.Errorf("message = %q, want the unrefined concatenation", result.Message)
	}
}

func TestChat_BothFailedIsAggregateFailure(t *testing.T) {
	svc := newService(
		&fakeClient{name: "openai", err: errors.New("down")},
		&fakeClient{name: "anthropic", err: errors.New("down too")},
		nil, nil,
	)

	_, err := svc.Chat(context.Background(), model.ChatRequest{Message: "hi"})
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("err = %v, want ErrAllProvidersFailed", err)
	}
}

// Every attempted provider call lands one audit row; unavailable
// providers were never called and leave no row.
func TestAuditRecording(t *testing.T) {
	calls := &memCalls{}
	svc := newService(
		&fakeClient{name: "openai", reply: analysisJSON("a", 1)},
		nil, // anthropic unavailable
		nil,
		calls,
	)

	if _, err := svc.AnalyzeStructured(context.Background(), sampleRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, _ := calls.Count(context.Background())
	if count != 1 {
		t.Fatalf("audit rows = %d, want 1", count)
	}
	row := calls.rows[0]
	if row.Provider != "openai" || row.Kind != model.CallAnalyze || !row.Success {
		t.Errorf("audit row = %+v", row)
	}
}
