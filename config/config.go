package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type OllamaConfig struct {
	Host         string `toml:"host"`
	DefaultModel string `toml:"default_model"`
}

// ProviderConfig is one entry in the user's provider list. API keys live in
// the credential store, not here; APIKey is only populated from environment
// overrides.
type ProviderConfig struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"-"`
}

// AgentConfig controls the tool-use loop.
type AgentConfig struct {
	MaxIterations         int     `toml:"max_iterations"`
	ReflectionEnabled     bool    `toml:"reflection_enabled"`
	ReflectionTemperature float64 `toml:"reflection_temperature,omitempty"`
	ReflectionMaxTokens   int     `toml:"reflection_max_tokens,omitempty"`
	SearchAPIKey          string  `toml:"search_api_key,omitempty"`
}

// SecurityConfig selects how API credentials are stored: "plaintext"
// (credentials.toml, the default) or "ssh_key" (credentials.enc, AES-256-GCM
// keyed from an SSH key signature).
type SecurityConfig struct {
	Method     string `toml:"method,omitempty"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Ollama              OllamaConfig     `toml:"ollama"`
	DefaultProvider     string           `toml:"default_provider"`
	DefaultModel        string           `toml:"default_model"`
	DefaultSystemPrompt string           `toml:"default_system_prompt,omitempty"`
	LastUsedProvider    string           `toml:"last_used_provider,omitempty"`
	Providers           []ProviderConfig `toml:"providers"`
	Agent               AgentConfig      `toml:"agent"`
	Security            SecurityConfig   `toml:"security"`
}

type Config struct {
	DataDirectory       string
	OllamaHost          string
	DefaultProvider     string
	DefaultModel        string
	DefaultSystemPrompt string
	LastUsedProvider    string
	Providers           []ProviderConfig
	Agent               AgentConfig
	Security            SecurityConfig
	CredentialStore     *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) OllamaURL() string {
	return c.OllamaHost
}

func (c *Config) Model() string {
	return c.DefaultModel
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// MaxIterations returns the agent loop bound, defaulting to 10.
func (c *Config) MaxIterations() int {
	if c.Agent.MaxIterations <= 0 {
		return 10
	}
	return c.Agent.MaxIterations
}

// APIKey resolves an API key from the environment, checking the generic
// variable first and then provider-specific ones in a fixed order.
func (c *Config) APIKey() string {
	for _, name := range []string{
		"LLM_API_KEY",
		"OPENAI_API_KEY",
		"DEEPSEEK_API_KEY",
		"ANTHROPIC_API_KEY",
		"AZURE_OPENAI_API_KEY",
	} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	if key := os.Getenv("QUARK_API_KEY"); key != "" {
		return key
	}
	return ""
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("QUARK_PROVIDER"); provider != "" {
		c.DefaultProvider = provider
	}
	if model := os.Getenv("QUARK_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if dataDir := os.Getenv("QUARK_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if base := os.Getenv("QUARK_API_BASE"); base != "" {
		for i := range c.Providers {
			if c.Providers[i].ID == c.DefaultProvider {
				c.Providers[i].BaseURL = base
			}
		}
	}
	if host := os.Getenv("QUARK_OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
}

func CheckDebug() bool {
	debug := os.Getenv("QUARK_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - may contain sensitive debug info
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (QUARK_DEBUG=%s) ===", os.Getenv("QUARK_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Env-only operation requires the full triple; a partial set is treated as a
// mistake and reported via GetMissingEnvVar.

func HasAllEnvVars() bool {
	return os.Getenv("QUARK_PROVIDER") != "" &&
		os.Getenv("QUARK_MODEL") != "" &&
		os.Getenv("QUARK_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("QUARK_PROVIDER") != "" ||
		os.Getenv("QUARK_MODEL") != "" ||
		os.Getenv("QUARK_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("QUARK_PROVIDER") == "" {
		return "QUARK_PROVIDER"
	}
	if os.Getenv("QUARK_MODEL") == "" {
		return "QUARK_MODEL"
	}
	if os.Getenv("QUARK_DATA_DIR") == "" {
		return "QUARK_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:   "~/.local/share/quark",
		OllamaHost:      "http://localhost:11434",
		DefaultProvider: "ollama",
		DefaultModel:    "llama3.1:latest",
		Providers:       DefaultProviders(),
		Agent:           AgentConfig{MaxIterations: 10},
	}

	settingsPath := GetSettingsFilePath()

	if FileExists(settingsPath) || !HasAllEnvVars() {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	// Env vars win over files either way
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	cfg.CredentialStore = cfg.newCredentialStore()
	if err := cfg.CredentialStore.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.Ollama.Host != "" {
		c.OllamaHost = userCfg.Ollama.Host
	}
	if userCfg.DefaultProvider != "" {
		c.DefaultProvider = userCfg.DefaultProvider
	}
	if userCfg.DefaultModel != "" {
		c.DefaultModel = userCfg.DefaultModel
	} else if userCfg.Ollama.DefaultModel != "" {
		c.DefaultModel = userCfg.Ollama.DefaultModel
	}
	c.DefaultSystemPrompt = userCfg.DefaultSystemPrompt
	c.LastUsedProvider = userCfg.LastUsedProvider
	c.Security = userCfg.Security
	if len(userCfg.Providers) > 0 {
		c.Providers = userCfg.Providers
	}
	if userCfg.Agent.MaxIterations > 0 {
		c.Agent = userCfg.Agent
	} else {
		c.Agent = userCfg.Agent
		c.Agent.MaxIterations = 10
	}
}

// newCredentialStore builds the store the [security] section asks for.
// Plain text is the default; ssh_key switches to the encrypted store, with
// the key path defaulting to the app-specific key and the passphrase (for
// encrypted keys) taken from QUARK_SSH_PASSPHRASE.
func (c *Config) newCredentialStore() *CredentialStore {
	if SecurityMethod(c.Security.Method) != SecuritySSHKey {
		return NewCredentialStore(SecurityPlainText, "")
	}

	keyPath := ExpandPath(c.Security.SSHKeyPath)
	if keyPath == "" {
		keyPath = GetQuarkKeyPath()
	}

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	if pass := os.Getenv("QUARK_SSH_PASSPHRASE"); pass != "" {
		store.SetPassphrase(pass)
	}
	return store
}
