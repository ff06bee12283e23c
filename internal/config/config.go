// Package config provides unified configuration loading for the scheme engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the scheme engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Corpus        CorpusConfig        `yaml:"corpus"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// CorpusConfig holds scheme corpus source settings.
type CorpusConfig struct {
	Source string       `yaml:"source"` // json or sqlite
	JSON   JSONConfig   `yaml:"json"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// JSONConfig holds JSON corpus source settings.
type JSONConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig holds SQLite corpus source settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	Table        string `yaml:"table"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RetrievalConfig holds retrieval index settings.
type RetrievalConfig struct {
	TopK         int `yaml:"top_k"`
	MaxVocabSize int `yaml:"max_vocab_size"`
	MinDocFreq   int `yaml:"min_doc_freq"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // none, memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Corpus: CorpusConfig{
			Source: "json",
			JSON: JSONConfig{
				Path: "data/schemes.json",
			},
			SQLite: SQLiteConfig{
				Path:         "data/schemes.db",
				Table:        "schemes",
				MaxOpenConns: 1,
			},
		},
		Retrieval: RetrievalConfig{
			TopK:         5,
			MaxVocabSize: 5000,
			MinDocFreq:   2,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        10 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Corpus.Source != "json" && c.Corpus.Source != "sqlite" {
		return fmt.Errorf("invalid corpus source: %s", c.Corpus.Source)
	}

	if c.Cache.Driver != "none" && c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 50 {
		return fmt.Errorf("top_k must be between 1 and 50")
	}

	if c.Retrieval.MinDocFreq < 1 {
		return fmt.Errorf("min_doc_freq must be at least 1")
	}

	return nil
}

// CorpusPath returns the path of the active corpus source.
func (c *Config) CorpusPath() string {
	if c.Corpus.Source == "sqlite" {
		return c.Corpus.SQLite.Path
	}
	return c.Corpus.JSON.Path
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SCHEME_CORPUS_PATH"); v != "" {
		if strings.HasSuffix(v, ".db") || strings.HasPrefix(v, "sqlite:") {
			cfg.Corpus.Source = "sqlite"
			cfg.Corpus.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else {
			cfg.Corpus.Source = "json"
			cfg.Corpus.JSON.Path = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		// Parse redis://host:port format
		addr := strings.TrimPrefix(v, "redis://")
		cfg.Cache.Redis.Addr = addr
	}

	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}

	if v := os.Getenv("RETRIEVAL_TOP_K"); v != "" {
		var topK int
		if _, err := fmt.Sscanf(v, "%d", &topK); err == nil {
			cfg.Retrieval.TopK = topK
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
