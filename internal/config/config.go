// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Storage  StorageConfig  `yaml:"storage"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	GinMode        string   `yaml:"gin_mode"` // debug, release, test
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GeminiConfig configures the recommendation gateway. An empty APIKey
// disables the gateway and every recommendation uses the fallback.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type CheckoutConfig struct {
	Delay string `yaml:"delay"`
}

type CatalogConfig struct {
	Path string `yaml:"path"` // empty: built-in collection
}

type LoggingConfig struct {
	Mode  string `yaml:"mode"` // development, production
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8011,
			GinMode: "release",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "30s",
		},
		Storage: StorageConfig{
			DBPath: ":memory:",
		},
		Checkout: CheckoutConfig{
			Delay: "2s",
		},
		Logging: LoggingConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	// API_KEY is what the hosted frontend build reads; GEMINI_API_KEY wins.
	if key := os.Getenv("API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if path := os.Getenv("STOREFRONT_DB"); path != "" {
		c.Storage.DBPath = path
	}
	if port := os.Getenv("STOREFRONT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	for name, raw := range map[string]string{
		"gemini.timeout": c.Gemini.Timeout,
		"checkout.delay": c.Checkout.Delay,
	} {
		if _, err := parseDuration(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GeminiTimeout() time.Duration {
	d, _ := parseDuration(c.Gemini.Timeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// CheckoutDelay is how long a simulated payment stays in processing.
func (c *Config) CheckoutDelay() time.Duration {
	d, _ := parseDuration(c.Checkout.Delay)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
