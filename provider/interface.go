// Package provider implements the LLM provider backends.
//
// The agent supports multiple providers (Ollama, OpenAI, Anthropic, plus
// OpenAI-compatible endpoints like DeepSeek and Azure OpenAI) through the
// common model.Provider interface. The UI and agent loop stay
// provider-agnostic; everything provider-specific lives here.
//
// The Provider interface itself is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements it.
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	text, err := p.Chat(ctx, messages, model.ChatOptions{})
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeDeepSeek  ProviderType = "deepseek"
	ProviderTypeAzure     ProviderType = "azure"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // Unused for Ollama
}
