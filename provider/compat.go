package provider

import "errors"

var (
	errAzureEndpointRequired   = errors.New("Azure OpenAI endpoint URL is required")
	errAzureDeploymentRequired = errors.New("Azure OpenAI deployment name is required")
)

// OpenAI-compatible endpoints. These reuse OpenAIProvider with different
// defaults and provider IDs.

// NewDeepSeekProvider creates a provider for the DeepSeek API.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.deepseek.com/v1")
//   - apiKey: DeepSeek API key (required)
//   - model: Initial model to use (default: "deepseek-chat")
func NewDeepSeekProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return newOpenAICompatible("deepseek", baseURL, apiKey, model)
}

// NewAzureProvider creates a provider for an Azure OpenAI deployment.
//
// Parameters:
//   - baseURL: The full deployment endpoint (required; there is no sensible
//     default because it embeds the resource name)
//   - apiKey: Azure OpenAI API key (required)
//   - model: The deployment name (required)
func NewAzureProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		return nil, errAzureEndpointRequired
	}
	if model == "" {
		return nil, errAzureDeploymentRequired
	}
	return newOpenAICompatible("azure", baseURL, apiKey, model)
}
