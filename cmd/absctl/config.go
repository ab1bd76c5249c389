package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// Env var names and config paths are derived from it.
const appName = "absctl"

var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envOutput    = strings.ToUpper(appName) + "_OUTPUT"
	envLogLevel  = strings.ToUpper(appName) + "_LOG_LEVEL"
	envProtect   = strings.ToUpper(appName) + "_PROTECT"
)

var outputFormats = []string{"table", "wide", "json", "yaml"}

// Config is the content of <config dir>/config.yml.
type Config struct {
	Output      string        `yaml:"output"`
	LogLevel    string        `yaml:"log_level"`
	Confirm     bool          `yaml:"confirm"`
	Protect     []string      `yaml:"protect"`
	Sort        string        `yaml:"sort"`
	Refresh     time.Duration `yaml:"refresh"`
	HistoryFile string        `yaml:"history_file"`
}

func defaultConfig(configDir string) Config {
	return Config{
		Output:      "table",
		LogLevel:    "warn",
		Confirm:     true,
		Sort:        "pid",
		Refresh:     2 * time.Second,
		HistoryFile: filepath.Join(configDir, "history"),
	}
}

// resolveConfigDir returns $ABSCTL_CONFIG_DIR when set, otherwise absctl
// under the user config directory ($XDG_CONFIG_HOME or ~/.config on Linux).
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// loadConfig builds the effective configuration.
// Order: defaults < config file < .env / environment. An explicit path must
// exist; the default config.yml is optional.
func loadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig(dir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, "config.yml")
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if v := os.Getenv(envOutput); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envProtect); v != "" {
		cfg.Protect = splitColon(v)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (valid: %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if !process.ValidSortKey(c.Sort) {
		return fmt.Errorf("invalid sort key %q (valid: %s)", c.Sort, strings.Join(process.SortKeys, ", "))
	}
	if c.Refresh < 0 {
		return fmt.Errorf("invalid refresh interval %s", c.Refresh)
	}
	return nil
}

// splitColon splits a colon-separated list such as $ABSCTL_PROTECT.
// Empty entries are dropped; an empty string yields nil.
func splitColon(s string) []string {
	names := strings.FieldsFunc(s, func(r rune) bool { return r == ':' })
	if len(names) == 0 {
		return nil
	}
	return names
}
