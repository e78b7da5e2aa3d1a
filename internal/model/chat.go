package model

// ChatRequest is one conversational question, optionally with arbitrary
// structured context the caller wants the models to see. Context is
// size-capped when embedded into a prompt, not here.
type ChatRequest struct {
	Message string `json:"message"`
	Context any    `json:"context,omitempty"`
}

// ChatResult is the merged reply. Providers counts how many backends
// contributed to the final text — useful for clients that want to badge
// single-source answers.
type ChatResult struct {
	Message   string `json:"message"`
	Providers int    `json:"providers"`
}
