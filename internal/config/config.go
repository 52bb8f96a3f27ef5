package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the Motion-Index API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Search     SearchConfig     `yaml:"search"`
	Cache      CacheConfig      `yaml:"cache"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Processing ProcessingConfig `yaml:"processing"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds search cluster connection settings.
type SearchConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the Redis classification-cache settings. Empty addrs
// disable the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

// ClassifierConfig holds LLM classifier settings.
type ClassifierConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ProcessingConfig holds ingestion pipeline settings.
type ProcessingConfig struct {
	MaxWorkers    int `yaml:"max_workers"`
	BatchSize     int `yaml:"batch_size"`
	BulkChunkSize int `yaml:"bulk_chunk_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Index == "" {
		c.Search.Index = "documents"
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 10
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = "gpt-3.5-turbo"
	}
	if c.Processing.MaxWorkers <= 0 {
		c.Processing.MaxWorkers = 4
	}
	if c.Processing.BatchSize <= 0 {
		c.Processing.BatchSize = 100
	}
	if c.Processing.BulkChunkSize <= 0 {
		c.Processing.BulkChunkSize = 500
	}
	// Unset ${VAR} references expand to empty strings; drop them so an
	// absent REDIS_ADDR reads as "no cache", not a cache at "".
	c.Cache.Addrs = dropEmpty(c.Cache.Addrs)
	c.Auth.APIKeys = dropEmpty(c.Auth.APIKeys)
}

func dropEmpty(values []string) []string {
	kept := values[:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Search.Addrs) == 0 {
		return fmt.Errorf("search.addrs is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
