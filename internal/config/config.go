// Package config handles XDG configuration directory and file paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "kazam"

	// TokenFile holds the opaque session token.
	TokenFile = "token"

	// UserFile holds the serialized user profile.
	UserFile = "user.json"

	// DefaultBaseURL is the production Kazam backend.
	DefaultBaseURL = "https://kazam-backend-8uil.onrender.com"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the remote API base URL.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/kazam or $HOME/.config/kazam.
// The API base URL comes from baseURL, the KAZAM_API_URL environment
// variable, or the built-in default, in that order.
func New(configDir, baseURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = strings.TrimSpace(os.Getenv("KAZAM_API_URL"))
	}
	if url == "" {
		url = DefaultBaseURL
	}
	return &Config{Dir: dir, BaseURL: strings.TrimRight(url, "/")}, nil
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

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// UserPath returns the path to the stored user profile file.
func (c *Config) UserPath() string {
	return filepath.Join(c.Dir, UserFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
