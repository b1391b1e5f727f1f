package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := GetHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde", "~/data", filepath.Join(home, "data")},
		{"absolute untouched", "/var/lib/quark", "/var/lib/quark"},
		{"empty", "", ""},
		{"cleans dots", "/var/lib/../lib/quark", "/var/lib/quark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnvVarTriple(t *testing.T) {
	t.Setenv("QUARK_PROVIDER", "")
	t.Setenv("QUARK_MODEL", "")
	t.Setenv("QUARK_DATA_DIR", "")

	if HasAnyEnvVar() {
		t.Error("HasAnyEnvVar() = true with no env vars set")
	}

	t.Setenv("QUARK_PROVIDER", "ollama")
	if !HasAnyEnvVar() {
		t.Error("HasAnyEnvVar() = false with QUARK_PROVIDER set")
	}
	if HasAllEnvVars() {
		t.Error("HasAllEnvVars() = true with only QUARK_PROVIDER set")
	}
	if got := GetMissingEnvVar(); got != "QUARK_MODEL" {
		t.Errorf("GetMissingEnvVar() = %q, want QUARK_MODEL", got)
	}

	t.Setenv("QUARK_MODEL", "llama3.1:latest")
	t.Setenv("QUARK_DATA_DIR", t.TempDir())
	if !HasAllEnvVars() {
		t.Error("HasAllEnvVars() = false with all three set")
	}
	if got := GetMissingEnvVar(); got != "" {
		t.Errorf("GetMissingEnvVar() = %q, want empty", got)
	}
}

func TestAPIKeyFallbackChain(t *testing.T) {
	for _, name := range []string{
		"LLM_API_KEY", "OPENAI_API_KEY", "DEEPSEEK_API_KEY",
		"ANTHROPIC_API_KEY", "AZURE_OPENAI_API_KEY", "QUARK_API_KEY",
	} {
		t.Setenv(name, "")
	}

	cfg := &Config{}
	if got := cfg.APIKey(); got != "" {
		t.Errorf("APIKey() = %q with nothing set", got)
	}

	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	if got := cfg.APIKey(); got != "anthropic-key" {
		t.Errorf("APIKey() = %q, want anthropic-key", got)
	}

	// The generic variable wins over provider-specific ones
	t.Setenv("LLM_API_KEY", "generic-key")
	if got := cfg.APIKey(); got != "generic-key" {
		t.Errorf("APIKey() = %q, want generic-key", got)
	}
}

func TestMaxIterationsDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.MaxIterations(); got != 10 {
		t.Errorf("MaxIterations() = %d, want default 10", got)
	}

	cfg.Agent.MaxIterations = 25
	if got := cfg.MaxIterations(); got != 25 {
		t.Errorf("MaxIterations() = %d, want 25", got)
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	cfg := DefaultUserConfig()
	cfg.DefaultProvider = "deepseek"
	cfg.DefaultModel = "deepseek-chat"
	cfg.Agent.MaxIterations = 5
	cfg.Agent.SearchAPIKey = "serp-test-key"
	cfg.Security = SecurityConfig{Method: "ssh_key", SSHKeyPath: "~/.ssh/quark_ed25519"}

	if err := SaveUserConfig(cfg, dataDir); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loaded, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if loaded.DefaultProvider != "deepseek" {
		t.Errorf("DefaultProvider = %q", loaded.DefaultProvider)
	}
	if loaded.DefaultModel != "deepseek-chat" {
		t.Errorf("DefaultModel = %q", loaded.DefaultModel)
	}
	if loaded.Agent.MaxIterations != 5 {
		t.Errorf("Agent.MaxIterations = %d", loaded.Agent.MaxIterations)
	}
	if loaded.Agent.SearchAPIKey != "serp-test-key" {
		t.Errorf("Agent.SearchAPIKey = %q", loaded.Agent.SearchAPIKey)
	}
	if loaded.Security.Method != "ssh_key" {
		t.Errorf("Security.Method = %q", loaded.Security.Method)
	}
	if loaded.Security.SSHKeyPath != "~/.ssh/quark_ed25519" {
		t.Errorf("Security.SSHKeyPath = %q", loaded.Security.SSHKeyPath)
	}

	// Config files must not be world readable
	info, err := os.Stat(filepath.Join(dataDir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config.toml permissions = %o, want 0600", perm)
	}
}

func TestNewCredentialStoreMethodSelection(t *testing.T) {
	t.Setenv("QUARK_SSH_PASSPHRASE", "")

	cfg := &Config{}
	if got := cfg.newCredentialStore().GetMethod(); got != SecurityPlainText {
		t.Errorf("default method = %q, want %q", got, SecurityPlainText)
	}

	cfg.Security = SecurityConfig{Method: "ssh_key", SSHKeyPath: "/tmp/some_key"}
	if got := cfg.newCredentialStore().GetMethod(); got != SecuritySSHKey {
		t.Errorf("method = %q, want %q", got, SecuritySSHKey)
	}

	// Unknown methods do not silently enable encryption
	cfg.Security = SecurityConfig{Method: "hsm"}
	if got := cfg.newCredentialStore().GetMethod(); got != SecurityPlainText {
		t.Errorf("method for unknown setting = %q, want %q", got, SecurityPlainText)
	}
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	if err := store.Set("openai", "sk-test"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(dataDir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get("openai"); got != "sk-test" {
		t.Errorf("Get(openai) = %q, want sk-test", got)
	}
	if got := reloaded.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}
