// Package config provides configuration management for the tressel package
// manager. It handles loading and validating application settings: the
// registry endpoint, per-registry authentication tokens, network limits and
// script policy. The package supports YAML configuration files and provides
// sensible defaults when no file is present.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tressel-dev/tressel/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Registry endpoints and credentials. The first entry is the default
	// registry used for metadata lookups; additional entries contribute
	// tokens for tarball URLs that match their prefix.
	Registries []*RegistryConfig `yaml:"registries"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// RegistryConfig represents a single registry endpoint with an optional
// bearer token applied to requests whose URL starts with its prefix.
type RegistryConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_downloads"`
	RetryAttempts int           `yaml:"retry_attempts"`

	// Installation settings
	DisallowInstallScripts bool `yaml:"disallow_install_scripts,omitempty"`

	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// Default configuration values.
const (
	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.org"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultMaxConcurrent is the default number of simultaneous tarball
	// downloads.
	DefaultMaxConcurrent = 16

	// DefaultRetryAttempts is the default number of attempts for a failing
	// network operation.
	DefaultRetryAttempts = 3

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Registries: []*RegistryConfig{{URL: DefaultRegistryURL}},
		Settings: Settings{
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			RetryAttempts: DefaultRetryAttempts,
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config file path")
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// GetDefaultConfigPath returns the default config file location
// (~/.config/tressel/config.yaml or the platform equivalent).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine user config directory")
	}
	return filepath.Join(configDir, "tressel", "config.yaml"), nil
}

// RegistryURL returns the metadata registry endpoint.
func (c *Config) RegistryURL() string {
	if len(c.Registries) > 0 && c.Registries[0].URL != "" {
		return strings.TrimSuffix(c.Registries[0].URL, "/")
	}
	return DefaultRegistryURL
}

// TokenFor returns the token of the registry entry with the longest URL
// prefix matching the given URL, or "" when none matches.
func (c *Config) TokenFor(url string) string {
	token := ""
	longest := 0
	for _, reg := range c.Registries {
		if reg.Token == "" || reg.URL == "" {
			continue
		}
		prefix := strings.TrimSuffix(reg.URL, "/")
		if strings.HasPrefix(url, prefix) && len(prefix) > longest {
			token = reg.Token
			longest = len(prefix)
		}
	}
	return token
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	if c.Settings.MaxConcurrent < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "max_concurrent_downloads cannot be negative")
	}
	if c.Settings.RetryAttempts < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "retry_attempts cannot be negative")
	}
	for _, reg := range c.Registries {
		if reg.URL == "" {
			return errors.Wrap(errors.ErrConfigValidation, "registry url cannot be empty")
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Registries) == 0 {
		c.Registries = []*RegistryConfig{{URL: DefaultRegistryURL}}
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Settings.RetryAttempts == 0 {
		c.Settings.RetryAttempts = DefaultRetryAttempts
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	return data, nil
}
