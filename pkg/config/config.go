package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	SolarTerms SolarTermsConfig
	TermCache  TermCacheConfig
	Aliases    AliasConfig
	Metrics    MetricsConfig
	Docs       DocsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolarTermsConfig configures the remote solar-term source. An empty RemoteURL disables it.
type SolarTermsConfig struct {
	RemoteURL     string
	RemoteTimeout time.Duration
	RemoteRPS     float64
	RemoteBurst   int
}

// RemoteEnabled reports whether a remote source should be consulted before the local table.
func (c SolarTermsConfig) RemoteEnabled() bool {
	return strings.TrimSpace(c.RemoteURL) != ""
}

// TermCacheConfig governs Redis caching of remote term sets. A positive WarmupSpan prefetches
// that many years on either side of the current year at startup.
type TermCacheConfig struct {
	Enabled       bool
	TTL           time.Duration
	WarmupSpan    int
	WarmupWorkers int
	WarmupRPS     float64
}

// AliasConfig toggles the unversioned routes used by the legacy front-end.
type AliasConfig struct {
	LegacyRoutesEnabled bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// DocsConfig toggles the swagger UI.
type DocsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.SolarTerms = SolarTermsConfig{
		RemoteURL:     v.GetString("SOLAR_TERMS_REMOTE_URL"),
		RemoteTimeout: parseDuration(v.GetString("SOLAR_TERMS_REMOTE_TIMEOUT"), 5*time.Second),
		RemoteRPS:     v.GetFloat64("SOLAR_TERMS_REMOTE_RPS"),
		RemoteBurst:   v.GetInt("SOLAR_TERMS_REMOTE_BURST"),
	}

	cfg.TermCache = TermCacheConfig{
		Enabled:       v.GetBool("ENABLE_TERM_CACHE"),
		TTL:           parseDuration(v.GetString("TERM_CACHE_TTL"), 24*time.Hour),
		WarmupSpan:    v.GetInt("TERM_WARMUP_SPAN"),
		WarmupWorkers: v.GetInt("TERM_WARMUP_WORKERS"),
		WarmupRPS:     v.GetFloat64("TERM_WARMUP_RPS"),
	}

	cfg.Aliases = AliasConfig{
		LegacyRoutesEnabled: v.GetBool("ENABLE_LEGACY_ROUTES"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	docsDefault := cfg.Env != EnvProduction
	if v.IsSet("ENABLE_DOCS") {
		docsDefault = v.GetBool("ENABLE_DOCS")
	}
	cfg.Docs = DocsConfig{Enabled: docsDefault}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, production; got %q", c.Env))
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("API_PREFIX must start with /, got %q", c.APIPrefix))
	}
	if c.Aliases.LegacyRoutesEnabled && strings.TrimRight(c.APIPrefix, "/") == "/api" {
		errs = append(errs, errors.New("API_PREFIX /api collides with the legacy routes; disable ENABLE_LEGACY_ROUTES or pick another prefix"))
	}

	if c.SolarTerms.RemoteEnabled() {
		if c.SolarTerms.RemoteTimeout <= 0 {
			errs = append(errs, errors.New("SOLAR_TERMS_REMOTE_TIMEOUT must be positive"))
		}
		if c.SolarTerms.RemoteRPS <= 0 {
			errs = append(errs, errors.New("SOLAR_TERMS_REMOTE_RPS must be positive"))
		}
		if c.SolarTerms.RemoteBurst < 1 {
			errs = append(errs, errors.New("SOLAR_TERMS_REMOTE_BURST must be at least 1"))
		}
	}

	if c.TermCache.Enabled && c.TermCache.TTL <= 0 {
		errs = append(errs, errors.New("TERM_CACHE_TTL must be positive when ENABLE_TERM_CACHE is set"))
	}
	if c.TermCache.WarmupSpan < 0 {
		errs = append(errs, fmt.Errorf("TERM_WARMUP_SPAN must not be negative, got %d", c.TermCache.WarmupSpan))
	}
	if c.TermCache.WarmupSpan > 0 {
		if c.TermCache.WarmupWorkers < 1 {
			errs = append(errs, errors.New("TERM_WARMUP_WORKERS must be at least 1 when TERM_WARMUP_SPAN is set"))
		}
		if c.TermCache.WarmupRPS <= 0 {
			errs = append(errs, errors.New("TERM_WARMUP_RPS must be positive when TERM_WARMUP_SPAN is set"))
		}
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5001)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLAR_TERMS_REMOTE_URL", "")
	v.SetDefault("SOLAR_TERMS_REMOTE_TIMEOUT", "5s")
	v.SetDefault("SOLAR_TERMS_REMOTE_RPS", 1.0)
	v.SetDefault("SOLAR_TERMS_REMOTE_BURST", 5)

	v.SetDefault("ENABLE_TERM_CACHE", false)
	v.SetDefault("TERM_CACHE_TTL", "24h")
	v.SetDefault("TERM_WARMUP_SPAN", 0)
	v.SetDefault("TERM_WARMUP_WORKERS", 2)
	v.SetDefault("TERM_WARMUP_RPS", 0.5)

	v.SetDefault("ENABLE_LEGACY_ROUTES", true)
	v.SetDefault("ENABLE_METRICS", true)
}

// isMissingFile reports an absent .env; viper returns a plain path error for an explicit config file.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
