package merge

import (
	"fmt"
	"testing"

	"github.com/rebeen/zanist/internal/model"
)

func charts(prefix string, n int) []model.Chart {
	out := make([]model.Chart, n)
	for i := range out {
		out[i] = model.Chart{
			ID:     fmt.Sprintf("%s-%d", prefix, i+1),
			Title:  fmt.Sprintf("%s chart %d", prefix, i+1),
			Type:   model.ChartBar,
			Labels: []string{"a", "b"},
			Datasets: []model.Dataset{
				{Label: "series", Values: []float64{1, 2}},
			},
		}
	}
	return out
}

func TestStructured_BothNilIsAggregateFailure(t *testing.T) {
	if _, ok := Structured(nil, nil); ok {
		t.Error("expected ok=false when both providers failed")
	}
}

func TestStructured_FirstOnly(t *testing.T) {
	first := &model.AnalysisResult{
		Summary:  "primary view",
		Insights: []string{"i1", "i2"},
		Charts:   charts("a", 2),
	}

	merged, ok := Structured(first, nil)
	if !ok {
		t.Fatal("expected ok")
	}
	if merged.Summary != "primary view" {
		t.Errorf("summary = %q", merged.Summary)
	}
	if len(merged.Insights) != 2 || len(merged.Charts) != 2 {
		t.Errorf("got %d insights, %d charts", len(merged.Insights), len(merged.Charts))
	}
}

func TestStructured_SecondOnlyAdoptsSummary(t *testing.T) {
	second := &model.AnalysisResult{Summary: "secondary view", Insights: []string{"x"}}

	merged, ok := Structured(nil, second)
	if !ok {
		t.Fatal("expected ok")
	}
	// With no primary summary the secondary one is adopted directly,
	// without the attribution label.
	if merged.Summary != "secondary view" {
		t.Errorf("summary = %q, want unlabeled adoption", merged.Summary)
	}
}

func TestStructured_SummaryConcatenatedWithAttribution(t *testing.T) {
	first := &model.AnalysisResult{Summary: "primary"}
	second := &model.AnalysisResult{Summary: "secondary"}

	merged, _ := Structured(first, second)
	want := "primary\n\n" + secondarySummaryLabel + "secondary"
	if merged.Summary != want {
		t.Errorf("summary = %q, want %q", merged.Summary, want)
	}
}

// The union property: merged sequence lengths equal the sums of the
// inputs, with the first provider's entries first and relative order
// preserved. No dedup, no drops, no cap.
func TestStructured_UnionPreservesOrderAndCounts(t *testing.T) {
	first := &model.AnalysisResult{
		Insights:     []string{"a1", "a2", "a3"},
		Explanations: []string{"ea"},
		Charts:       charts("a", 3),
	}
	second := &model.AnalysisResult{
		Insights:     []string{"b1"},
		Explanations: []string{"eb1", "eb2"},
		Charts:       charts("b", 4),
	}

	merged, ok := Structured(first, second)
	if !ok {
		t.Fatal("expected ok")
	}

	if len(merged.Insights) != 4 {
		t.Errorf("insights = %d, want 4", len(merged.Insights))
	}
	if len(merged.Explanations) != 3 {
		t.Errorf("explanations = %d, want 3", len(merged.Explanations))
	}
	if len(merged.Charts) != 7 {
		t.Fatalf("charts = %d, want 7", len(merged.Charts))
	}

	wantIDs := []string{"a-1", "a-2", "a-3", "b-1", "b-2", "b-3", "b-4"}
	for i, chart := range merged.Charts {
		if chart.ID != wantIDs[i] {
			t.Errorf("chart[%d].ID = %s, want %s", i, chart.ID, wantIDs[i])
		}
	}
}

func TestStructured_DuplicatesAreKept(t *testing.T) {
	first := &model.AnalysisResult{Insights: []string{"same insight"}}
	second := &model.AnalysisResult{Insights: []string{"same insight"}}

	merged, _ := Structured(first, second)
	if len(merged.Insights) != 2 {
		t.Errorf("insights = %d, want 2 (no dedup)", len(merged.Insights))
	}
}

// A chart whose labels and dataset values disagree in length is provider
// garbage, but it still passes through untouched.
func TestStructured_MismatchedChartPassesThrough(t *testing.T) {
	bad := model.Chart{
		ID:     "bad",
		Type:   model.ChartLine,
		Labels: []string{"only one"},
		Datasets: []model.Dataset{
			{Label: "s", Values: []float64{1, 2, 3}},
		},
	}
	first := &model.AnalysisResult{Charts: []model.Chart{bad}}

	merged, _ := Structured(first, nil)
	if len(merged.Charts) != 1 {
		t.Fatal("mismatched chart was dropped")
	}
	if len(merged.Charts[0].Labels) != 1 || len(merged.Charts[0].Datasets[0].Values) != 3 {
		t.Error("mismatched chart was altered")
	}
}
