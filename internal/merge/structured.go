package merge

import "github.com/rebeen/zanist/internal/model"

// secondarySummaryLabel marks the second provider's summary inside the
// merged one. Concatenation with attribution, never overwrite and never
// sentence-level dedup: the providers are additive sources of analytical
// breadth, not competing candidates for a single best answer.
const secondarySummaryLabel = "Additional analysis: "

// Structured merges two optional analysis payloads into one. Either may
// be nil (that provider did not succeed). The merge is deterministic and
// order-preserving: the first provider's content seeds the result
// verbatim, the second's insights, explanations, and charts are appended
// in their original order with no dedup, no reordering, and no cap.
//
// Returns ok=false only when both inputs are nil; the caller must report
// an aggregate failure then, never an empty 200.
func Structured(first, second *model.AnalysisResult) (*model.AnalysisResult, bool) {
	if first == nil && second == nil {
		return nil, false
	}

	merged := &model.AnalysisResult{
		Insights:     []string{},
		Explanations: []string{},
		Charts:       []model.Chart{},
	}

	if first != nil {
		merged.Summary = first.Summary
		merged.Insights = append(merged.Insights, first.Insights...)
		merged.Explanations = append(merged.Explanations, first.Explanations...)
		merged.Charts = append(merged.Charts, first.Charts...)
	}

	if second != nil {
		if second.Summary != "" {
			if merged.Summary == "" {
				merged.Summary = second.Summary
			} else {
				merged.Summary += "\n\n" + secondarySummaryLabel + second.Summary
			}
		}
		merged.Insights = append(merged.Insights, second.Insights...)
		merged.Explanations = append(merged.Explanations, second.Explanations...)
		merged.Charts = append(merged.Charts, second.Charts...)
	}

	return merged, true
}
