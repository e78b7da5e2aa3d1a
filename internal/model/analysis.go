// Package model defines the core data types for the analysis service.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."`
// annotations) tell serialization libraries how to map fields.
package model

// Table is one tabular input: ordered columns and ordered rows.
// Rows are maps keyed by column name — the column order lives in Columns,
// because Go maps are unordered by design.
type Table struct {
	Name    string           `json:"name"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// AnalysisRequest is the immutable input to the structured-analysis pipeline.
// It is created per request and discarded when the response is written —
// nothing here is ever persisted.
type AnalysisRequest struct {
	Tables []Table  `json:"tables"`
	Texts  []string `json:"texts"`
	Notes  string   `json:"notes"`
}

// ChartType is the closed set of chart kinds providers may emit.
// Go doesn't have enums — we use typed string constants instead.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHistogram ChartType = "histogram"
)

// Dataset is one series within a chart.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Chart is a provider-suggested visualization. The ID is a caller-facing
// label, not globally unique. Labels and dataset value counts should line
// up, but provider output is untrusted and we pass mismatches through
// rather than reject them — validation is the renderer's problem.
type Chart struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Type     ChartType `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// AnalysisResult is the merged output of the structured pipeline.
// All slice fields default to empty, never nil-surprise the JSON encoder.
type AnalysisResult struct {
	Summary      string   `json:"summary"`
	Insights     []string `json:"insights"`
	Explanations []string `json:"explanations"`
	Charts       []Chart  `json:"charts"`
}

// IsEmpty reports whether the result carries no content at all.
func (r *AnalysisResult) IsEmpty() bool {
	return r.Summary == "" && len(r.Insights) == 0 &&
		len(r.Explanations) == 0 && len(r.Charts) == 0
}
