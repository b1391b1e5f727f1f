package provider

import (
	"quark/config"
	"quark/model"
)

// InitializeProviders creates ALL provider instances for the application.
//
// It handles:
//   - Creating the Ollama provider (always attempted)
//   - Creating enabled cloud providers from config
//   - Loading API keys from the credential store
//   - Wrapping every provider with the retry policy
//   - Graceful degradation (logs warnings but doesn't fail)
//
// The provider package owns the complete provider lifecycle, so all
// initialization logic lives here, not in config or ui packages.
//
// The returned map is keyed by provider ID and may omit providers whose
// initialization failed.
func InitializeProviders(cfg *config.Config) map[string]model.Provider {
	providers := make(map[string]model.Provider)
	policy := DefaultRetryPolicy()

	// Ollama first (special case - always attempted, no credentials)
	if ollamaProvider := initializeOllama(cfg); ollamaProvider != nil {
		providers["ollama"] = WithRetry(ollamaProvider, policy)
		if config.Debug {
			config.DebugLog.Printf("[Provider] Initialized Ollama provider")
		}
	} else if config.Debug {
		config.DebugLog.Printf("[Provider] Ollama provider initialization failed (offline mode)")
	}

	for _, providerCfg := range cfg.Providers {
		if !providerCfg.Enabled || providerCfg.ID == "ollama" {
			continue
		}

		apiKey := providerCfg.APIKey
		if apiKey == "" && cfg.CredentialStore != nil {
			apiKey = cfg.CredentialStore.Get(providerCfg.ID)
		}
		if apiKey == "" {
			apiKey = cfg.APIKey()
		}

		p, err := NewProvider(Config{
			Type:    MapProviderIDToType(providerCfg.ID),
			BaseURL: providerCfg.BaseURL,
			APIKey:  apiKey,
			Model:   "", // Set when the session loads
		})

		if err != nil {
			// Log warning but don't fail - allow app to start
			if config.Debug {
				config.DebugLog.Printf("[Provider] Warning: failed to initialize provider %s: %v", providerCfg.ID, err)
			}
			continue
		}

		providers[providerCfg.ID] = WithRetry(p, policy)
		if config.Debug {
			config.DebugLog.Printf("[Provider] Initialized provider: %s", providerCfg.ID)
		}
	}

	return providers
}

// initializeOllama creates the Ollama provider instance.
// Returns nil if initialization fails (allows offline mode).
func initializeOllama(cfg *config.Config) model.Provider {
	p, err := NewOllamaProvider(cfg.OllamaURL(), cfg.Model())
	if err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Provider] Ollama provider creation failed: %v", err)
		}
		return nil
	}
	return p
}
