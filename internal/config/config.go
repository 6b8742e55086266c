// Package config handles discovery and loading of .racoon.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the working directory
// upward.
const FileName = ".racoon.toml"

// DefaultHTTPTimeout bounds a single HTTP retrieval.
const DefaultHTTPTimeout = 60 * time.Second

// ErrNotFound is returned by FindFile when no configuration file exists.
var ErrNotFound = errors.New("config file not found")

// Config holds racoon settings. Command-line flags override it.
type Config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path string

	AllowDirectoryTraversal bool
	HTTPTimeout             time.Duration
	UserAgent               string

	// LogFile receives JSON events when set. "-" means stderr.
	LogFile string

	// Headers are sent with every HTTP request; per-file headers win.
	Headers map[string]string
}

type fileConfig struct {
	AllowDirectoryTraversal bool              `toml:"allow_directory_traversal"`
	HTTPTimeout             string            `toml:"http_timeout"`
	UserAgent               string            `toml:"user_agent"`
	LogFile                 string            `toml:"log_file"`
	Headers                 map[string]string `toml:"headers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPTimeout: DefaultHTTPTimeout,
		Headers:     map[string]string{},
	}
}

// FindFile searches upward from start for FileName.
func FindFile(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s above %s", ErrNotFound, FileName, start)
}

// Load returns the nearest configuration above workDir, or the defaults
// when there is none.
func Load(workDir string) (*Config, error) {
	path, err := FindFile(workDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Path = path

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("allow_directory_traversal") {
		cfg.AllowDirectoryTraversal = raw.AllowDirectoryTraversal
	}

	if meta.IsDefined("http_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HTTPTimeout))
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("parse http_timeout: must be positive, got %s", d)
		}
		cfg.HTTPTimeout = d
	}

	if meta.IsDefined("user_agent") {
		cfg.UserAgent = strings.TrimSpace(raw.UserAgent)
	}

	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}

	if meta.IsDefined("headers") {
		for k, v := range raw.Headers {
			cfg.Headers[k] = v
		}
	}

	return cfg, nil
}
