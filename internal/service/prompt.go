package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rebeen/zanist/internal/model"
)

// maxContextBytes caps how much caller-supplied context JSON gets
// embedded into a chat prompt. The request body itself is size-limited
// upstream; this cap protects the token budget, not the server.
const maxContextBytes = 4096

const analyzeSystemPrompt = `You are a data analyst. You will receive tables, text documents, and notes. Analyze them and respond with a single JSON object, nothing else, in this shape:
{
  "summary": "a few paragraphs summarizing the data",
  "insights": ["notable finding", ...],
  "explanations": ["explanation of a pattern or anomaly", ...],
  "charts": [
    {
      "id": "chart-1",
      "title": "chart title",
      "type": "bar" | "line" | "pie" | "scatter" | "histogram",
      "labels": ["category", ...],
      "datasets": [{"label": "series name", "values": [1, 2, 3]}]
    }
  ]
}
Write the summary, insights, and explanations in the same language as the input data and notes (Kurdish, Arabic, or English). Suggest charts only where the data supports them.`

const chatSystemPrompt = `You are a helpful data assistant for speakers of Kurdish, Arabic, and English. Always answer in the same language the user writes in. Be concise and concrete. If context data is provided, ground your answer in it.`

// analyzeUserPrompt renders an analysis request as prompt text. Tables
// are emitted as JSON so column order and row values survive verbatim;
// prose sections are passed through untouched.
func analyzeUserPrompt(req model.AnalysisRequest) string {
	var sb strings.Builder

	for i, table := range req.Tables {
		name := table.Name
		if name == "" {
			name = fmt.Sprintf("table %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("Table %q (columns: %s):\n", name, strings.Join(table.Columns, ", ")))
		rows, err := json.Marshal(table.Rows)
		if err != nil {
			// Rows came from decoded JSON, so this can't realistically
			// fail; skip the table body rather than abort the request.
			sb.WriteString("(rows unavailable)\n\n")
			continue
		}
		sb.Write(rows)
		sb.WriteString("\n\n")
	}

	for i, text := range req.Texts {
		sb.WriteString(fmt.Sprintf("Document %d:\n%s\n\n", i+1, text))
	}

	if req.Notes != "" {
		sb.WriteString("Notes from the user:\n")
		sb.WriteString(req.Notes)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		sb.WriteString("(no data provided)")
	}

	return sb.String()
}

// chatUserPrompt builds the chat prompt, embedding optional caller
// context as size-capped JSON.
func chatUserPrompt(message string, context any) string {
	if context == nil {
		return message
	}

	raw, err := json.Marshal(context)
	if err != nil {
		return message
	}
	if len(raw) > maxContextBytes {
		raw = append(raw[:maxContextBytes], []byte("...")...)
	}

	return fmt.Sprintf("%s\n\nContext data:\n%s", message, raw)
}
