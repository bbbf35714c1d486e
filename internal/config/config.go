// Package config loads the edgekit.json project configuration with
// environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "edgekit.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultRoot is the default distribution folder.
	DefaultRoot = "dist"
)

// Config represents the complete edgekit.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" ignored:"true"`

	// Root is the distribution folder served from.
	Root string `json:"root,omitempty" envconfig:"ROOT"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" envconfig:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" envconfig:"PORT"`

	// Assets contains raw asset serving configuration.
	Assets AssetsConfig `json:"assets,omitempty"`

	// Metrics enables the Prometheus /metrics endpoint.
	Metrics bool `json:"metrics,omitempty" envconfig:"METRICS"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// AssetsConfig contains raw asset serving configuration.
type AssetsConfig struct {
	// Dir is the directory containing raw assets, relative to Root.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for assets (default: "/assets/").
	Prefix string `json:"prefix,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Root: DefaultRoot,
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// Load reads edgekit.json from the given directory and applies environment
// overrides (prefix EDGEKIT, e.g. EDGEKIT_PORT). A missing file is not an
// error: defaults plus environment apply.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No project file; defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.configPath = path
	}

	if err := envconfig.Process("edgekit", cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in any values left unset by the file and environment.
func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Assets.Prefix == "" {
		c.Assets.Prefix = "/assets/"
	}
}

// Path returns the file path the config was loaded from, or "" when the
// config came entirely from defaults and environment.
func (c *Config) Path() string {
	return c.configPath
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
