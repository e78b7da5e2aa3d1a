package model

import "time"

// CallKind distinguishes what a provider invocation was for.
type CallKind string

const (
	CallAnalyze CallKind = "analyze"
	CallChat    CallKind = "chat"
	CallRefine  CallKind = "refine"
)

// ProviderCall is an audit row for one LLM invocation. Each field has a
// `db:"column_name"` tag used by sqlx to scan database rows. This is the
// only thing the service persists — request and result entities never
// outlive their request.
type ProviderCall struct {
	ID         int64     `db:"id" json:"id"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Kind       CallKind  `db:"kind" json:"kind"`
	Success    bool      `db:"success" json:"success"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
