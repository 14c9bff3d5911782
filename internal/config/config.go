// Package config loads eventlens configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName     = "eventlens"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8086
	defaultDataPath        = "data/events.csv"
	defaultLLMURL          = "http://localhost:11434"
	defaultLLMModel        = "llama3.1:8b"
	defaultLLMTimeoutSec   = 120
	defaultLLMRatePerSec   = 1
	defaultLLMBurst        = 2
	defaultCacheMaxSize    = 100
	defaultCacheExpirySec  = 300
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultLanguage        = "en"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all configuration for the eventlens service.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Data    DataConfig    `yaml:"data"`
	LLM     LLMConfig     `yaml:"llm"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `yaml:"port"`
	Debug           bool          `yaml:"debug"`
	DefaultLanguage string        `yaml:"default_language"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataConfig holds event log source configuration.
type DataConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// LLMConfig holds configuration for the language model backend.
type LLMConfig struct {
	URL           string        `yaml:"url"`
	Model         string        `yaml:"model"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// CacheConfig holds query cache configuration.
type CacheConfig struct {
	MaxSize int           `yaml:"max_size"`
	Expiry  time.Duration `yaml:"expiry"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from the specified path, applying .env files,
// defaults, and environment overrides in that order. A missing config file
// is not an error; defaults and the environment drive everything.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)

	if cfg.Service.Port <= 0 || cfg.Service.Port > 65535 {
		return nil, fmt.Errorf("invalid service port %d", cfg.Service.Port)
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	s := &cfg.Service
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = defaultLanguage
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Data.CSVPath == "" {
		cfg.Data.CSVPath = defaultDataPath
	}
	l := &cfg.LLM
	if l.URL == "" {
		l.URL = defaultLLMURL
	}
	if l.Model == "" {
		l.Model = defaultLLMModel
	}
	if l.Timeout == 0 {
		l.Timeout = defaultLLMTimeoutSec * time.Second
	}
	if l.RatePerSecond == 0 {
		l.RatePerSecond = defaultLLMRatePerSec
	}
	if l.Burst == 0 {
		l.Burst = defaultLLMBurst
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = defaultCacheMaxSize
	}
	if cfg.Cache.Expiry == 0 {
		cfg.Cache.Expiry = defaultCacheExpirySec * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
}

// applyEnvOverrides layers environment variables over the loaded config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Service.Port = port
		}
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Service.Debug = debug
		}
	}
	if v := os.Getenv("DEFAULT_LANGUAGE"); v != "" {
		cfg.Service.DefaultLanguage = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.LLM.URL = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.MaxSize = n
		}
	}
	if v := os.Getenv("CACHE_EXPIRY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.Expiry = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
