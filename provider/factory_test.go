package provider

import (
	"strings"
	"testing"
)

func TestNewProviderOllama(t *testing.T) {
	p, err := NewProvider(Config{
		Type:    ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.GetModel() != "llama3.1" {
		t.Errorf("GetModel() = %q, want llama3.1", p.GetModel())
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"openai", Config{Type: ProviderTypeOpenAI, Model: "gpt-4o-mini"}},
		{"anthropic", Config{Type: ProviderTypeAnthropic}},
		{"deepseek", Config{Type: ProviderTypeDeepSeek}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(tt.cfg); err == nil {
				t.Errorf("NewProvider(%s) without API key succeeded, want error", tt.name)
			}
		})
	}
}

func TestNewProviderAzureRequiresEndpoint(t *testing.T) {
	_, err := NewProvider(Config{Type: ProviderTypeAzure, APIKey: "key", Model: "deployment"})
	if err == nil {
		t.Fatal("expected error for Azure provider without endpoint")
	}
	if !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewProviderUnknownType(t *testing.T) {
	_, err := NewProvider(Config{Type: ProviderType("frobnicator")})
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
	if !strings.Contains(err.Error(), "unknown provider type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"ollama", ProviderTypeOllama},
		{"openai", ProviderTypeOpenAI},
		{"anthropic", ProviderTypeAnthropic},
		{"deepseek", ProviderTypeDeepSeek},
		{"azure", ProviderTypeAzure},
		{"mystery", ProviderType("mystery")},
	}
	for _, tt := range tests {
		if got := MapProviderIDToType(tt.id); got != tt.want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
