package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/quark",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Ollama: OllamaConfig{
			Host:         "http://localhost:11434",
			DefaultModel: "llama3.1:latest",
		},
		DefaultProvider: "ollama",
		DefaultModel:    "llama3.1:latest",
		Providers:       DefaultProviders(),
		Agent: AgentConfig{
			MaxIterations: 10,
		},
	}
}

// DefaultProviders lists every supported provider. Only Ollama starts
// enabled; the rest need an API key first.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "ollama", Name: "Ollama", Enabled: true, BaseURL: "http://localhost:11434"},
		{ID: "openai", Name: "OpenAI", Enabled: false, BaseURL: "https://api.openai.com/v1"},
		{ID: "anthropic", Name: "Anthropic", Enabled: false, BaseURL: "https://api.anthropic.com"},
		{ID: "deepseek", Name: "DeepSeek", Enabled: false, BaseURL: "https://api.deepseek.com/v1"},
		{ID: "azure", Name: "Azure OpenAI", Enabled: false, BaseURL: ""},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Quark System Configuration
# Location: ~/.config/quark/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions and user config are stored
data_directory = "~/.local/share/quark"
`
}

func GenerateUserConfigTemplate() string {
	return `# Quark User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Provider used for new sessions: ollama, openai, anthropic, deepseek, azure
default_provider = "ollama"

# Default model to use when starting a new session
default_model = "llama3.1:latest"

# Default system prompt for new sessions (optional)
# Example: "You are a helpful coding assistant."
default_system_prompt = ""

[ollama]
# Ollama server URL
host = "http://localhost:11434"
default_model = "llama3.1:latest"

[agent]
# Maximum model calls per query before the agent gives up
max_iterations = 10

# Run one extra model pass to refine the final answer
reflection_enabled = false

# SerpAPI key for the web_search tool
# (falls back to the SERPAPI_API_KEY environment variable)
# search_api_key = ""

[security]
# Credential storage: "plaintext" (credentials.toml) or "ssh_key"
# (credentials.enc, encrypted with a key derived from an SSH key signature)
method = "plaintext"

# SSH private key for the ssh_key method; defaults to ~/.ssh/quark_ed25519
# ssh_key_path = "~/.ssh/quark_ed25519"
`
}
