package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/security"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Artifacts struct {
		ModelPath   string `yaml:"model_path"`
		DatasetPath string `yaml:"dataset_path"`
	} `yaml:"artifacts"`
	Cache struct {
		Enabled    bool `yaml:"enabled"`
		TTLSeconds int  `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Security struct {
		MaxRequestsPerMin     int      `yaml:"max_requests_per_min"`
		RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
		EnableCORS            bool     `yaml:"enable_cors"`
		AllowedOrigins        []string `yaml:"allowed_origins"`
	} `yaml:"security"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Artifacts.ModelPath = "data/model.json"
	cfg.Artifacts.DatasetPath = "data/diabetes.csv"
	cfg.Cache.Enabled = true
	cfg.Cache.TTLSeconds = 300
	sec := security.DefaultSecurityConfig()
	cfg.Security.MaxRequestsPerMin = sec.MaxRequestsPerMin
	cfg.Security.RequestTimeoutSeconds = int(sec.RequestTimeout.Seconds())
	cfg.Security.EnableCORS = sec.EnableCORS
	cfg.Security.AllowedOrigins = sec.AllowedOrigins
	return cfg
}

// LoadConfig reads configuration from the specified YAML file. A missing
// file is not an error: defaults are returned so the service can run
// from environment variables alone.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overlays environment variables onto the loaded configuration.
// Environment always wins over the file.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if path := os.Getenv("MODEL_PATH"); path != "" {
		c.Artifacts.ModelPath = path
	}
	if path := os.Getenv("DATASET_PATH"); path != "" {
		c.Artifacts.DatasetPath = path
	}
	if raw := os.Getenv("CACHE_TTL_SECONDS"); raw != "" {
		if ttl, err := strconv.Atoi(raw); err == nil && ttl > 0 {
			c.Cache.TTLSeconds = ttl
		}
	}
	if raw := os.Getenv("MAX_REQUESTS_PER_MIN"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			c.Security.MaxRequestsPerMin = limit
		}
	}
}

// SecurityConfig builds the middleware configuration from the loaded values.
func (c *Config) SecurityConfig() security.SecurityConfig {
	sec := security.DefaultSecurityConfig()
	if c.Security.MaxRequestsPerMin > 0 {
		sec.MaxRequestsPerMin = c.Security.MaxRequestsPerMin
	}
	if c.Security.RequestTimeoutSeconds > 0 {
		sec.RequestTimeout = time.Duration(c.Security.RequestTimeoutSeconds) * time.Second
	}
	sec.EnableCORS = c.Security.EnableCORS
	if len(c.Security.AllowedOrigins) > 0 {
		sec.AllowedOrigins = c.Security.AllowedOrigins
	}
	return sec
}

// CacheTTL returns the response cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
