// Package config loads commentdex configuration from environment-keyed
// YAML files with env-var expansion.
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

// Config holds the commentdex configuration.
type Config struct {
	Env    string       `yaml:"env"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Redis  RedisConfig  `yaml:"redis"`
	Index  IndexConfig  `yaml:"index"`
	Search SearchConfig `yaml:"search"`
	Meta   MetaConfig   `yaml:"meta"`
	Sync   SyncConfig   `yaml:"sync"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	AuthToken       string `yaml:"auth_token"` // empty disables bearer auth
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds record store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds dirty-queue connection settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// IndexConfig holds index naming and pagination settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	MappingVersion  string `yaml:"mapping_version"`
	MaxResultWindow int    `yaml:"max_result_window"`
}

// SearchConfig holds relevance cascade settings.
type SearchConfig struct {
	Fields      []string `yaml:"fields"` // empty means the built-in field set
	PhraseBoost float64  `yaml:"phrase_boost"`
	TermBoost   float64  `yaml:"term_boost"`
	Fuzziness   int      `yaml:"fuzziness"`
}

// MetaConfig holds the metadata indexing policy.
type MetaConfig struct {
	AllowedKeys    []string `yaml:"allowed_keys"` // non-empty makes the policy exclusive
	DeniedKeys     []string `yaml:"denied_keys"`
	IndexProtected bool     `yaml:"index_protected"`
}

// SyncConfig holds sync pipeline settings.
type SyncConfig struct {
	BatchSize int     `yaml:"batch_size"`
	RateLimit float64 `yaml:"rate_limit"` // batches per second, 0 = unlimited
	Burst     int     `yaml:"burst"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name
// (local, dev, prod). CONFIG_PATH overrides the file lookup.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} and ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = env
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
	if c.Env == "" {
		c.Env = "local"
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = 60
	}
	if c.Server.ShutdownSec <= 0 {
		c.Server.ShutdownSec = 10
	}
	if c.Store.Path == "" {
		c.Store.Path = "commentdex.db"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "commentdex"
	}
	if c.Index.Name == "" {
		c.Index.Name = "comments"
	}
	if c.Index.MappingVersion == "" {
		c.Index.MappingVersion = "es7"
	}
	if c.Index.MaxResultWindow <= 0 {
		c.Index.MaxResultWindow = 10000
	}
	if c.Search.PhraseBoost <= 0 {
		c.Search.PhraseBoost = 4
	}
	if c.Search.TermBoost <= 0 {
		c.Search.TermBoost = 2
	}
	if c.Search.Fuzziness <= 0 {
		c.Search.Fuzziness = 1
	}
	if c.Sync.BatchSize <= 0 {
		c.Sync.BatchSize = 500
	}
	if c.Sync.Burst <= 0 {
		c.Sync.Burst = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	if c.Index.MaxResultWindow <= 0 {
		return fmt.Errorf("index.max_result_window must be positive, got %d", c.Index.MaxResultWindow)
	}
	if c.Search.Fuzziness < 0 || c.Search.Fuzziness > 2 {
		return fmt.Errorf("search.fuzziness must be between 0 and 2, got %d", c.Search.Fuzziness)
	}
	if c.Sync.RateLimit < 0 {
		return fmt.Errorf("sync.rate_limit must not be negative, got %g", c.Sync.RateLimit)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

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
