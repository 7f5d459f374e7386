package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the main application configuration.
type AppConfig struct {
	// Server holds HTTP server configuration.
	Server struct {
		Port           int   `yaml:"port"`
		ReadTimeoutMS  int64 `yaml:"read_timeout_ms"`
		WriteTimeoutMS int64 `yaml:"write_timeout_ms"`
		IdleTimeoutMS  int64 `yaml:"idle_timeout_ms"`
		ReadHeaderMS   int64 `yaml:"read_header_timeout_ms"`
		MaxBodyBytes   int64 `yaml:"max_body_bytes"`
		DebugEvents    bool  `yaml:"debug_events"`
	} `yaml:"server"`
	// Storage selects the database backing the provider/plugin config
	// stores. When empty, providers and plugins are served from the static
	// entries below.
	Storage StorageConfig `yaml:"storage"`
	// Providers lists statically configured upstream connections.
	Providers []ProviderEntry `yaml:"providers"`
	// Plugins lists statically configured notification sinks and their
	// per-project links.
	Plugins []PluginEntry `yaml:"plugins"`
}

// StorageConfig holds database connection settings shared by all stores.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	Dialect     string `yaml:"dialect"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// ProviderEntry is one statically configured provider connection.
type ProviderEntry struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	BaseURL       string `yaml:"base_url"`
	AccessToken   string `yaml:"access_token"`
	WebhookSecret string `yaml:"webhook_secret"`
	Active        bool   `yaml:"active"`
	// Projects restricts the entry to specific project ids. Empty matches
	// every project.
	Projects []string `yaml:"projects"`
}

// PluginEntry is one statically configured notification sink with its
// organization-level base config and per-project links.
type PluginEntry struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Type     string            `yaml:"type"`
	Active   bool              `yaml:"active"`
	Config   map[string]any    `yaml:"config"`
	Projects []PluginLinkEntry `yaml:"projects"`
}

// PluginLinkEntry links a plugin entry to one project, optionally
// overriding parts of the base config and gating dispatch with a filter
// expression.
type PluginLinkEntry struct {
	ID      string         `yaml:"id"`
	Enabled bool           `yaml:"enabled"`
	Config  map[string]any `yaml:"config"`
	Filter  string         `yaml:"filter"`
}

// LoadConfig reads a YAML config file, expanding ${ENV_VAR} references
// before unmarshaling.
func LoadConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 10 << 20
	}
	if cfg.Server.ReadHeaderMS == 0 {
		cfg.Server.ReadHeaderMS = 5000
	}
}

func validateConfig(cfg AppConfig) error {
	seen := make(map[string]struct{}, len(cfg.Providers))
	for _, entry := range cfg.Providers {
		if entry.Type == "" {
			return fmt.Errorf("provider %q: type is required", entry.ID)
		}
		if entry.ID == "" {
			return fmt.Errorf("provider of type %q: id is required", entry.Type)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("provider %q: duplicate id", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(cfg.Plugins))
	for _, entry := range cfg.Plugins {
		if entry.Type == "" {
			return fmt.Errorf("plugin %q: type is required", entry.ID)
		}
		if entry.ID == "" {
			return fmt.Errorf("plugin of type %q: id is required", entry.Type)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("plugin %q: duplicate id", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}
