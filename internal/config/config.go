package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gockelhut/jsvcgen/internal/codegen"
)

// FileName is the name of the project configuration file
const FileName = "jsvcgen.json"

// ErrNotFound is returned when no configuration file exists in the search path
var ErrNotFound = errors.New("no " + FileName + " found")

// Config represents the jsvcgen.json configuration file
type Config struct {
	Schema         string      `json:"schema"`
	Output         string      `json:"output"`
	Language       string      `json:"language"`
	Namespace      string      `json:"namespace"`
	ImmutableTypes bool        `json:"immutable_types"`
	Newline        string      `json:"newline"`
	Indent         string      `json:"indent"`
	Parallelism    int         `json:"parallelism"`
	Watch          WatchConfig `json:"watch"`
}

// WatchConfig contains file watching configuration
type WatchConfig struct {
	Patterns []string `json:"patterns"`
	Exclude  []string `json:"exclude"`

	// DebounceMillis is the quiet period before a change triggers regeneration
	DebounceMillis int `json:"debounce_ms"`
}

// Default returns the configuration used when no jsvcgen.json exists
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	opts := codegen.DefaultOptions()

	if c.Schema == "" {
		c.Schema = "./service.json"
	}
	if c.Output == "" {
		c.Output = "./generated"
	}
	if c.Language == "" {
		c.Language = "java"
	}
	if c.Newline == "" {
		c.Newline = opts.Newline
	}
	if c.Indent == "" {
		c.Indent = opts.Indent
	}
	if c.Parallelism < 1 {
		c.Parallelism = 1
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.json"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{FileName, ".git", "node_modules"}
	}
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = 200
	}
}

// BackendConfig returns the settings handed to the backend factory
func (c *Config) BackendConfig() codegen.BackendConfig {
	return codegen.BackendConfig{
		Options: codegen.Options{
			Newline: c.Newline,
			Indent:  c.Indent,
		},
		Namespace:      c.Namespace,
		ImmutableTypes: c.ImmutableTypes,
	}
}

// Resolve makes the schema and output paths absolute against the project root
func (c *Config) Resolve(root string) {
	if !filepath.IsAbs(c.Schema) {
		c.Schema = filepath.Join(root, c.Schema)
	}
	if !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(root, c.Output)
	}
}

// LoadConfig loads the jsvcgen.json configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the jsvcgen.json configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// loadConfigFromDir searches for jsvcgen.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
