package provider

import (
	"fmt"

	"chatwire/config"
	"chatwire/model"

	log "github.com/sirupsen/logrus"
)

// FromConfig creates the provider the gateway forwards to, together with its
// credential source.
//
// The returned *config.FileCredentials is non-nil only when a credentials file
// is configured; the caller owns its Watch/Stop lifecycle.
func FromConfig(cfg *config.Config) (model.Provider, config.CredentialSource, *config.FileCredentials, error) {
	creds, fileCreds, err := config.NewCredentialSource(cfg.Provider.Type, cfg.Provider.CredentialsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	p, err := NewProvider(Config{
		Type:        MapProviderIDToType(cfg.Provider.Type),
		BaseURL:     cfg.Provider.BaseURL,
		Model:       cfg.Provider.Model,
		Credentials: creds,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	entry := log.WithFields(log.Fields{
		"component": "provider",
		"provider":  p.Name(),
		"model":     p.GetModel(),
	})
	if cfg.RequiresCredential() && creds.APIKey() == "" {
		// Not fatal: the key is re-read per request and may be exported later
		entry.Warnf("no API key found in %s; requests will fail until one is set", config.APIKeyEnvVar(cfg.Provider.Type))
	}
	entry.Info("provider initialized")

	return p, creds, fileCreds, nil
}
