package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries every option the subsystem recognizes. All secrets and TTLs
// are required at startup; a missing or invalid value is a fatal configuration
// error. TTLs are configured in milliseconds.
type Config struct {
	AccessTokenSecret     string `env:"AUTH_ACCESS_TOKEN_SECRET" json:"-"`
	ActivationTokenSecret string `env:"AUTH_ACTIVATION_TOKEN_SECRET" json:"-"`
	AccessTokenTTLMs      int64  `env:"AUTH_ACCESS_TOKEN_TTL_MS" json:"access_token_ttl_ms"`
	ActivationTokenTTLMs  int64  `env:"AUTH_ACTIVATION_TOKEN_TTL_MS" json:"activation_token_ttl_ms"`
	RefreshTokenTTLMs     int64  `env:"AUTH_REFRESH_TOKEN_TTL_MS" json:"refresh_token_ttl_ms"`
	RefreshCookieName     string `env:"AUTH_REFRESH_COOKIE_NAME" json:"refresh_cookie_name"`
	RefreshCookiePath     string `env:"AUTH_REFRESH_COOKIE_PATH" env-default:"/api/auth" json:"refresh_cookie_path"`
	Issuer                string `env:"AUTH_TOKEN_ISSUER" env-default:"gugultas" json:"issuer"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read auth configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the startup contract: every recognized option present and
// in range.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.AccessTokenSecret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.ActivationTokenSecret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.AccessTokenTTLMs, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.ActivationTokenTTLMs, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.RefreshTokenTTLMs, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.RefreshCookieName, validation.Required),
		validation.Field(&c.RefreshCookiePath, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid auth configuration")
	}

	if c.AccessTokenSecret == c.ActivationTokenSecret {
		return goerrors.New(
			"access and activation token secrets must differ",
			goerrors.CategoryValidation,
		)
	}

	return nil
}

// AccessTokenTTL returns the access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMs) * time.Millisecond
}

// ActivationTokenTTL returns the activation token lifetime.
func (c *Config) ActivationTokenTTL() time.Duration {
	return time.Duration(c.ActivationTokenTTLMs) * time.Millisecond
}

// RefreshTokenTTL returns the refresh session lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLMs) * time.Millisecond
}
