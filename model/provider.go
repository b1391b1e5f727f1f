package model

import (
	"context"

	"quark/ollama"
)

// ChatOptions carries per-call sampling parameters. Zero values mean
// "use the provider default".
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

// Provider abstracts LLM provider implementations (Ollama, OpenAI, Anthropic,
// and OpenAI-compatible endpoints) using provider-agnostic types from the
// model layer.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations can import model, and model can use the
// Provider interface without importing the provider package.
//
// Chat is synchronous on purpose. Tool invocations are recognized in the
// complete response text, so streaming partial chunks buys nothing here.
type Provider interface {
	// Chat sends the conversation and returns the full response text.
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the currently selected model name (InternalName for API calls).
	GetModel() string

	// GetDisplayName returns the model name formatted for UI display.
	GetDisplayName() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
