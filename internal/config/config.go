// Package config handles the XDG configuration directory, the optional
// config.yaml and the API base URL.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "ptask"

	// ConfigFile is the optional settings filename inside the config dir.
	ConfigFile = "config.yaml"

	// SessionFile is the stored bearer credential filename.
	SessionFile = "session.json"

	// LogFile receives logs while the interactive UI owns the terminal.
	LogFile = "ptask.log"

	// DefaultAPIURL is used when nothing else configures the API origin.
	DefaultAPIURL = "http://localhost:8080"

	// EnvAPIURL overrides the API origin from the environment.
	EnvAPIURL = "PTASK_API_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the origin of the project/task API.
	APIURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings mirrors config.yaml.
type fileSettings struct {
	APIURL string `mapstructure:"api_url"`
	Debug  bool   `mapstructure:"debug"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/ptask or $HOME/.config/ptask.
// The API URL is resolved from config.yaml, then PTASK_API_URL, falling back
// to DefaultAPIURL.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, APIURL: DefaultAPIURL}

	settings, err := loadFile(cfg.ConfigPath())
	if err != nil {
		return nil, err
	}
	if settings.APIURL != "" {
		cfg.APIURL = settings.APIURL
	}
	cfg.Debug = settings.Debug

	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		cfg.APIURL = env
	}
	return cfg, nil
}

func loadFile(path string) (fileSettings, error) {
	var s fileSettings
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return s, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return s, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SetAPIURL validates and stores an API origin.
// Trailing slashes are dropped so paths can be appended directly.
func (c *Config) SetAPIURL(raw string) error {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url: %s", raw)
	}
	c.APIURL = strings.TrimRight(raw, "/")
	return nil
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// LogPath returns the path to the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
