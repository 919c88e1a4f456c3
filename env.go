package gatekeeper

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// Settings are the process-level secrets and knobs supplied out of band,
// separate from the merged policy Config. The signing secret never lives in
// the policy itself.
type Settings struct {
	SigningSecret string `env:"GATEKEEPER_SIGNING_SECRET"`
	TokenIssuer   string `env:"GATEKEEPER_TOKEN_ISSUER"`
	BcryptCost    int    `env:"GATEKEEPER_BCRYPT_COST" envDefault:"12"`
	AuthMode      string `env:"GATEKEEPER_AUTH_MODE"`
	AccessTTL     string `env:"GATEKEEPER_ACCESS_TTL"`
}

// SettingsFromEnv loads Settings from the environment
func SettingsFromEnv() (Settings, error) {
	var settings Settings
	if err := env.Parse(&settings); err != nil {
		return Settings{}, errors.Wrap(err, errors.CategoryOperation, "failed to parse environment settings")
	}
	return settings, nil
}

// ConfigOverride converts the environment-provided policy knobs into a
// partial override for Merge. Unset variables leave the defaults alone.
func (s Settings) ConfigOverride() *ConfigOverride {
	override := &ConfigOverride{}

	if s.AuthMode != "" {
		mode := AuthMode(s.AuthMode)
		override.Mode = &mode
	}

	if s.AccessTTL != "" {
		ttl := s.AccessTTL
		override.Token = &TokenOverride{AccessTTL: &ttl}
	}

	return override
}

// Validate ensures the settings can serve the given auth mode. A missing
// signing secret in token mode is a startup-time configuration error, never
// a per-request one.
func (s Settings) Validate(mode AuthMode) error {
	if mode == AuthModeToken && s.SigningSecret == "" {
		return ErrMissingSigningSecret
	}
	return nil
}
