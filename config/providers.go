package config

import (
	"fmt"
)

// UpdateProviderField updates a single provider configuration field.
// This is the business logic layer for provider settings.
//
// Fields:
//   - Ollama: "host", "enabled"
//   - Cloud providers: "apikey", "enabled", "baseurl"
func UpdateProviderField(dataDir, providerID, fieldName, value string) error {
	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch providerID {
	case "ollama":
		switch fieldName {
		case "host":
			cfg.Ollama.Host = value

			// Sync to [[providers]] array for consistency
			for i := range cfg.Providers {
				if cfg.Providers[i].ID == "ollama" {
					cfg.Providers[i].BaseURL = value
					break
				}
			}
		case "enabled":
			updateProviderEnabled(cfg, providerID, value == "true")
		default:
			return fmt.Errorf("unknown field for ollama: %s", fieldName)
		}

	case "openai", "anthropic", "deepseek", "azure":
		switch fieldName {
		case "apikey":
			// API keys live in the credential store, not config.toml
			fullCfg, err := Load()
			if err != nil {
				return fmt.Errorf("failed to load full config for credential update: %w", err)
			}

			if fullCfg.CredentialStore != nil {
				if err := fullCfg.CredentialStore.Set(providerID, value); err != nil {
					return fmt.Errorf("failed to set API key: %w", err)
				}
				if err := fullCfg.CredentialStore.Save(dataDir); err != nil {
					return fmt.Errorf("failed to persist credentials: %w", err)
				}
			}
			return nil

		case "baseurl":
			for i := range cfg.Providers {
				if cfg.Providers[i].ID == providerID {
					cfg.Providers[i].BaseURL = value
					break
				}
			}
		case "enabled":
			updateProviderEnabled(cfg, providerID, value == "true")
		default:
			return fmt.Errorf("unknown field for %s: %s", providerID, fieldName)
		}

	default:
		return fmt.Errorf("unknown provider: %s", providerID)
	}

	if err := SaveUserConfig(cfg, dataDir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// updateProviderEnabled updates the enabled status of a provider, adding a
// default entry when the provider is missing from the list.
func updateProviderEnabled(cfg *UserConfig, providerID string, enabled bool) {
	for i := range cfg.Providers {
		if cfg.Providers[i].ID == providerID {
			cfg.Providers[i].Enabled = enabled
			return
		}
	}

	for _, def := range DefaultProviders() {
		if def.ID == providerID {
			def.Enabled = enabled
			cfg.Providers = append(cfg.Providers, def)
			return
		}
	}

	cfg.Providers = append(cfg.Providers, ProviderConfig{
		ID:      providerID,
		Name:    providerID,
		Enabled: enabled,
	})
}
