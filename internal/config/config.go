// Package config loads cjkfts configuration.
//
// Precedence, lowest first: built-in defaults, the user config
// ($XDG_CONFIG_HOME/cjkfts/config.yaml), an explicit file, then CJKFTS_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/logging"
)

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Environment variables that override file settings.
const (
	EnvIndexPath = "CJKFTS_INDEX_PATH"
	EnvProfile   = "CJKFTS_PROFILE"
	EnvLogLevel  = "CJKFTS_LOG_LEVEL"
	EnvCacheSize = "CJKFTS_CACHE_SIZE"
)

// Config is the complete cjkfts configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IndexConfig selects where and how documents are indexed.
type IndexConfig struct {
	// Path is the index directory. Empty means $XDG_DATA_HOME/cjkfts/index.
	Path string `yaml:"path" json:"path"`

	// Profile is the language profile. It is fixed once an index exists.
	Profile analysis.Profile `yaml:"profile" json:"profile"`

	// WriterBudgetMB is the soft cap on one writer session's buffer.
	WriterBudgetMB int `yaml:"writer_budget_mb" json:"writer_budget_mb"`
}

// SearchConfig tunes query execution.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	CacheSize    int `yaml:"cache_size" json:"cache_size"` // 0 disables the result cache
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"` // empty = ~/.cjkfts/logs/cjkfts.log
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Index: IndexConfig{
			Profile:        analysis.Korean,
			WriterBudgetMB: 50,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			CacheSize:    256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetUserConfigDir returns the directory of the user config.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// GetUserConfigPath returns the user config file path, honouring
// XDG_CONFIG_HOME.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cjkfts", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "cjkfts", "config.yaml")
	}
	return filepath.Join(home, ".config", "cjkfts", "config.yaml")
}

// UserConfigExists reports whether a user config file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration. explicitPath may be empty; when
// set the file must exist.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if UserConfigExists() {
		if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return nil, cerrors.New(cerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", explicitPath), nil).
				WithSuggestion("run 'cjkfts config init' to create one")
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path on top of c. Keys absent from the file keep their
// current value, so an explicit zero in the file still wins.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return cerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := os.LookupEnv(EnvIndexPath); ok {
		c.Index.Path = v
	}
	if v := os.Getenv(EnvProfile); v != "" {
		p, err := analysis.ParseProfile(v)
		if err != nil {
			return cerrors.New(cerrors.ErrCodeInvalidProfile, fmt.Sprintf("%s: %v", EnvProfile, err), err)
		}
		c.Index.Profile = p
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cerrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", EnvCacheSize, v), err)
		}
		c.Search.CacheSize = n
	}
	return nil
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return cerrors.ConfigError(fmt.Sprintf(format, args...), nil)
	}

	if c.Version != CurrentVersion {
		return invalid("unsupported config version %d (want %d)", c.Version, CurrentVersion)
	}
	if !c.Index.Profile.Valid() {
		return invalid("index.profile is invalid")
	}
	if c.Index.WriterBudgetMB <= 0 {
		return invalid("index.writer_budget_mb must be positive, got %d", c.Index.WriterBudgetMB)
	}
	if c.Search.DefaultLimit <= 0 {
		return invalid("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.CacheSize < 0 {
		return invalid("search.cache_size must be non-negative, got %d", c.Search.CacheSize)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	return nil
}

// WriterBudgetBytes returns the writer budget in bytes.
func (c *Config) WriterBudgetBytes() int64 {
	return int64(c.Index.WriterBudgetMB) << 20
}

// WriteYAML writes c to path. See WriteFile.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return WriteFile(path, data)
}

// WriteFile writes raw config data to path, creating parent directories. An
// existing file is backed up first.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := BackupFile(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GetDefaultIndexPath returns the index directory the CLI uses when
// index.path is unset, honouring XDG_DATA_HOME.
func GetDefaultIndexPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cjkfts", "index")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cjkfts", "index")
	}
	return filepath.Join(home, ".local", "share", "cjkfts", "index")
}
