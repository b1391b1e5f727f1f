package provider

import "strings"

// InferProviderType guesses the provider implementation from a base URL.
// Used when the user sets QUARK_API_BASE without naming a provider.
//
// Recognized hosts:
//   - "deepseek" anywhere in the URL → DeepSeek
//   - "azure" anywhere in the URL → Azure OpenAI
//   - "anthropic" anywhere in the URL → Anthropic
//   - port 11434 → Ollama
//
// Everything else is treated as an OpenAI-compatible endpoint.
func InferProviderType(baseURL string) ProviderType {
	url := strings.ToLower(baseURL)
	switch {
	case strings.Contains(url, "deepseek"):
		return ProviderTypeDeepSeek
	case strings.Contains(url, "azure"):
		return ProviderTypeAzure
	case strings.Contains(url, "anthropic"):
		return ProviderTypeAnthropic
	case strings.Contains(url, ":11434"):
		return ProviderTypeOllama
	default:
		return ProviderTypeOpenAI
	}
}
