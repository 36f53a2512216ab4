package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, "token", cfg.Auth.QueryParam)
	assert.Equal(t, "X-Auth-Token", cfg.Auth.RefreshHeader)
	assert.Equal(t, FallbackStoreOutage, cfg.Auth.FallbackMode)
	assert.Equal(t, int64(1), cfg.Auth.FallbackAdminID)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestProfileByEnvironment(t *testing.T) {
	dev := Config{App: AppConfig{Env: "development"}, Auth: AuthConfig{RefreshThreshold: 0.2}}
	p := dev.Profile()
	assert.Equal(t, 24*time.Hour, p.TokenLifetime)
	assert.False(t, p.CookieSecure)
	assert.Equal(t, 0.2, p.RefreshThreshold)

	prod := Config{App: AppConfig{Env: "production"}, Auth: AuthConfig{RefreshThreshold: 0.2}}
	p = prod.Profile()
	assert.Equal(t, 7*24*time.Hour, p.TokenLifetime)
	assert.True(t, p.CookieSecure)

	override := Config{App: AppConfig{Env: "production"}, Auth: AuthConfig{TokenTTL: time.Hour}}
	assert.Equal(t, time.Hour, override.Profile().TokenLifetime)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", DevJWTSecret)

	_, err := Load()
	require.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestValidateRejectsUnknownFallbackMode(t *testing.T) {
	t.Setenv("AUTH_FALLBACK_MODE", "always")
	_, err := Load()
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	c := CORSConfig{Origins: "https://a.dev/, https://b.dev ,,"}
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, c.AllowedOrigins())
}
