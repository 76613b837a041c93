package config

import (
	"os"
	"path/filepath"
)

// FileName is the configuration file looked up in the default locations
const FileName = "site_pusher.yaml"

// DefaultConfigPaths returns the config search paths.
// Search order:
// 1. Current directory (./site_pusher.yaml)
// 2. Config subdirectory (./config/site_pusher.yaml)
// 3. User config ($HOME/.config/site_pusher/site_pusher.yaml)
func DefaultConfigPaths() []string {
	paths := []string{
		filepath.Join(".", FileName),
		filepath.Join(".", "config", FileName),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "site_pusher", FileName))
	}
	return paths
}

// SearchPathsOptional returns the first existing path, or an empty string
func SearchPathsOptional(paths []string) string {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindConfigOptional searches the default locations for a config file
func FindConfigOptional() string {
	return SearchPathsOptional(DefaultConfigPaths())
}

// Load reads the config at path, or the first one found in the default
// locations when path is empty. No file at all yields an empty config.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigOptional()
	}
	if path == "" {
		return &Config{}, "", nil
	}

	cfg, err := ParseConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
