package llm

import "context"

// Request is one completion request
type Request struct {
	// System is an optional instruction sent ahead of the prompt
	System string
	Prompt string
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete sends the prompt and returns the model's text
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}
