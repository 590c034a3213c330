package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the per-root home directory.
const EnvHome = "VAE_HOME"

// GetHome returns the vae home directory for root, creating it if needed.
// Priority order:
//  1. VAE_HOME environment variable (if set)
//  2. <root>/.vae
func GetHome(root string) (string, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		home = filepath.Join(root, HomeDirName)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create vae home directory: %w", err)
	}
	return home, nil
}

// ConfigPath returns the default config file location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.yaml")
}

// LogPath returns the directory run logs are written to. An empty LogDir
// means <home>/logs; relative paths are resolved against root.
func (c *Config) LogPath(root, home string) string {
	if c.LogDir == "" {
		return filepath.Join(home, "logs")
	}
	return Resolve(root, c.LogDir)
}
