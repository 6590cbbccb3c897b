package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Content providers accepted in settings
var validProviders = []string{"endpoint", "gemini", "static"}

// Settings are the process-level runtime settings.
// Values come from defaults, an optional sitegen.yaml and SITEGEN_* environment variables.
type Settings struct {
	OutputDir   string `mapstructure:"output_dir"`
	Concurrency int    `mapstructure:"concurrency"`
	Verbose     bool   `mapstructure:"verbose"`

	Provider         string        `mapstructure:"provider"`
	Endpoint         string        `mapstructure:"endpoint"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestBytes  int           `mapstructure:"max_request_bytes"`
	MaxResponseBytes int           `mapstructure:"max_response_bytes"`

	CachePath string        `mapstructure:"cache_path"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	DatabaseURL string `mapstructure:"database_url"`

	Server ServerSettings `mapstructure:"server"`
	JWT    JWTSettings    `mapstructure:"jwt"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RatePerMinute  int      `mapstructure:"rate_per_minute"`
	Burst          int      `mapstructure:"burst"`
}

// JWTSettings configures bearer token signing.
type JWTSettings struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LoadSettings reads settings. An empty path looks for sitegen.yaml in the
// working directory and tolerates its absence; an explicit path must exist.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SITEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Common unprefixed names are honored as well
	_ = v.BindEnv("api_key", "SITEGEN_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database_url", "SITEGEN_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret", "SITEGEN_JWT_SECRET", "JWT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sitegen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "generated-sites")
	v.SetDefault("concurrency", 4)
	v.SetDefault("verbose", false)
	v.SetDefault("provider", "endpoint")
	v.SetDefault("endpoint", "http://localhost:8080/api/generate-content")
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("max_request_bytes", 64<<10)
	v.SetDefault("max_response_bytes", 1<<20)
	v.SetDefault("cache_path", "")
	v.SetDefault("cache_ttl", 24*time.Hour)
	v.SetDefault("database_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:4321"})
	v.SetDefault("server.rate_per_minute", 30)
	v.SetDefault("server.burst", 10)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", 24*time.Hour)
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if !contains(validProviders, s.Provider) {
		return fmt.Errorf("settings error: provider must be one of %v, got %q", validProviders, s.Provider)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("settings error: timeout must be positive")
	}
	if s.MaxRequestBytes <= 0 || s.MaxResponseBytes <= 0 {
		return fmt.Errorf("settings error: request and response limits must be positive")
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("settings error: concurrency must be at least 1")
	}
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("settings error: server.port out of range: %d", s.Server.Port)
	}
	if s.Server.RatePerMinute < 1 || s.Server.Burst < 1 {
		return fmt.Errorf("settings error: server rate limits must be positive")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
