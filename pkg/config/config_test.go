package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.SolarTerms.RemoteEnabled())
	assert.Equal(t, 5*time.Second, cfg.SolarTerms.RemoteTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TermCache.TTL)
	assert.False(t, cfg.TermCache.Enabled)
	assert.Zero(t, cfg.TermCache.WarmupSpan)
	assert.Equal(t, 2, cfg.TermCache.WarmupWorkers)
	assert.Equal(t, 0.5, cfg.TermCache.WarmupRPS)
	assert.True(t, cfg.Aliases.LegacyRoutesEnabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Docs.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "9090")
	t.Setenv("SOLAR_TERMS_REMOTE_URL", "https://terms.example.com/v1")
	t.Setenv("SOLAR_TERMS_REMOTE_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("ENABLE_TERM_CACHE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.SolarTerms.RemoteEnabled())
	assert.Equal(t, 2*time.Second, cfg.SolarTerms.RemoteTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.TermCache.Enabled)
	assert.False(t, cfg.Docs.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		Env:  "staging",
		Port: 0,
		SolarTerms: SolarTermsConfig{
			RemoteURL:     "https://terms.example.com",
			RemoteTimeout: 0,
			RemoteRPS:     0,
			RemoteBurst:   0,
		},
		TermCache: TermCacheConfig{Enabled: true},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "PORT")
	assert.Contains(t, msg, "ENV")
	assert.Contains(t, msg, "SOLAR_TERMS_REMOTE_TIMEOUT")
	assert.Contains(t, msg, "SOLAR_TERMS_REMOTE_RPS")
	assert.Contains(t, msg, "SOLAR_TERMS_REMOTE_BURST")
	assert.Contains(t, msg, "TERM_CACHE_TTL")
}

func TestValidateRejectsLegacyPrefixCollision(t *testing.T) {
	cfg := &Config{
		Env:       EnvDevelopment,
		Port:      5001,
		APIPrefix: "/api/",
		Aliases:   AliasConfig{LegacyRoutesEnabled: true},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides with the legacy routes")

	cfg.Aliases.LegacyRoutesEnabled = false
	assert.NoError(t, cfg.Validate())
}

func TestValidateWarmupSettings(t *testing.T) {
	cfg := &Config{
		Env:       EnvDevelopment,
		Port:      5001,
		APIPrefix: "/api/v1",
		TermCache: TermCacheConfig{WarmupSpan: -1},
	}
	require.ErrorContains(t, cfg.Validate(), "TERM_WARMUP_SPAN")

	cfg.TermCache = TermCacheConfig{WarmupSpan: 3}
	err := cfg.Validate()
	require.ErrorContains(t, err, "TERM_WARMUP_WORKERS")
	require.ErrorContains(t, err, "TERM_WARMUP_RPS")

	cfg.TermCache.WarmupWorkers = 2
	cfg.TermCache.WarmupRPS = 0.5
	assert.NoError(t, cfg.Validate())
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}

// chdirTemp isolates Load from any .env in the working tree.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
