// Package config provides configuration file support for snaptyx.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/fsutil"
)

// FileName is the configuration file looked up in a source directory.
const FileName = ".snaptyx.yaml"

// Config represents the snaptyx configuration.
type Config struct {
	Exclude    ExcludeConfig `yaml:"exclude" json:"exclude"`
	IgnoreFile string        `yaml:"ignore_file" json:"ignore_file"`
	Logging    LoggingConfig `yaml:"logging" json:"logging"`
}

// ExcludeConfig configures the file selection policy.
type ExcludeConfig struct {
	Extensions  []string `yaml:"extensions" json:"extensions"`
	Directories []string `yaml:"directories" json:"directories"`
	Patterns    []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Exclude: ExcludeConfig{
			Extensions:  []string{".zip", ".rar"},
			Directories: []string{"__pycache__", ".git"},
		},
		IgnoreFile: ".snaptyxignore",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from <dir>/.snaptyx.yaml.
// Returns default config if file doesn't exist.
func Load(dir string) (*Config, error) {
	return load(filepath.Join(dir, FileName), true)
}

// LoadFile loads configuration from an explicit path. The file must exist.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if optional && os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.Wrapf(err, "parse %s", path)
	}
	cfg.normalize()

	return cfg, nil
}

// Save writes configuration to <dir>/.snaptyx.yaml.
func Save(dir string, cfg *Config) error {
	return SaveFile(filepath.Join(dir, FileName), cfg)
}

// SaveFile writes configuration to path, creating parent directories.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.WriteFileAll(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// normalize lower-cases extensions and gives each a leading dot.
func (c *Config) normalize() {
	for i, ext := range c.Exclude.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Exclude.Extensions[i] = ext
	}
}

// Get returns a configuration value by key, YAML-encoded for list values.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "exclude.extensions":
		return marshalList(c.Exclude.Extensions)
	case "exclude.directories":
		return marshalList(c.Exclude.Directories)
	case "exclude.patterns":
		return marshalList(c.Exclude.Patterns)
	case "ignore_file":
		return c.IgnoreFile, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	}
	return "", errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
}

// Set sets a configuration value by key. List values accept a YAML list
// or a comma-separated string.
func (c *Config) Set(key, value string) error {
	switch key {
	case "exclude.extensions":
		c.Exclude.Extensions = parseList(value)
		c.normalize()
	case "exclude.directories":
		c.Exclude.Directories = parseList(value)
	case "exclude.patterns":
		c.Exclude.Patterns = parseList(value)
	case "ignore_file":
		c.IgnoreFile = value
	case "logging.level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return errclass.ErrConfigInvalid.WithMessagef("invalid logging.level: %s", value)
		}
		c.Logging.Level = value
	case "logging.format":
		if value != "json" && value != "text" {
			return errclass.ErrConfigInvalid.WithMessagef("invalid logging.format: %s", value)
		}
		c.Logging.Format = value
	default:
		return errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
	}
	return nil
}

// Keys lists the keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"exclude.extensions",
		"exclude.directories",
		"exclude.patterns",
		"ignore_file",
		"logging.level",
		"logging.format",
	}
}

func marshalList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	data, err := yaml.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(data), nil
}

func parseList(value string) []string {
	var items []string
	if err := yaml.Unmarshal([]byte(value), &items); err == nil {
		return items
	}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
