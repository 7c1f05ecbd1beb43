package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDir returns the pokefinder directory: $POKEFINDER_HOME, or
// ~/.pokefinder.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(userHome, ".pokefinder"), nil
}

// DefaultConfigPath returns <home>/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// EnsureDataDir creates the data directory and the log file directory.
func (c *Config) EnsureDataDir() error {
	if c.DataDir != "" {
		if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
			return fmt.Errorf("failed to create data directory %q: %w", c.DataDir, err)
		}
	}
	if c.Logging.File != "" {
		logDir := filepath.Dir(c.Logging.File)
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
		}
	}
	return nil
}
