package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetConfigDir returns the contactdeck configuration directory. It honours
// CONTACTDECK_HOME as seen by lookupEnv and otherwise uses ~/.contactdeck.
// A nil lookupEnv reads the process environment.
func GetConfigDir(lookupEnv func(string) (string, bool)) (string, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if home, ok := lookupEnv(EnvHome); ok && home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".contactdeck"), nil
}

// DefaultConfigPath returns the path of config.yaml in the config directory.
func DefaultConfigPath(lookupEnv func(string) (string, bool)) (string, error) {
	dir, err := GetConfigDir(lookupEnv)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureLogDir creates the parent directory of the configured log file.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
