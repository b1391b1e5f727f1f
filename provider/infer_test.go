package provider

import "testing"

func TestInferProviderType(t *testing.T) {
	tests := []struct {
		url  string
		want ProviderType
	}{
		{"https://api.deepseek.com/v1", ProviderTypeDeepSeek},
		{"https://myresource.openai.azure.com/openai/deployments/gpt4", ProviderTypeAzure},
		{"https://api.anthropic.com", ProviderTypeAnthropic},
		{"http://localhost:11434", ProviderTypeOllama},
		{"http://192.168.1.10:11434/v1", ProviderTypeOllama},
		{"https://api.openai.com/v1", ProviderTypeOpenAI},
		{"https://some-proxy.example.com/v1", ProviderTypeOpenAI},
		{"", ProviderTypeOpenAI},
	}
	for _, tt := range tests {
		if got := InferProviderType(tt.url); got != tt.want {
			t.Errorf("InferProviderType(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
