package ai

import "context"

// Request is a single system+user chat completion.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider to return a JSON object when it supports that mode.
	JSON bool
}

// Completer is implemented by every LLM provider.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
	Model() string
}
