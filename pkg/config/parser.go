package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseConfig reads, schema-validates and decodes a configuration file.
// Files ending in .json are read as JSON, anything else as YAML.
func ParseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(configFile), ".json") {
		format = "json"
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document in the given format (yaml or json)
func Parse(data []byte, format string) (*Config, error) {
	var doc interface{}
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	// An empty file is an empty config
	if doc == nil {
		return &Config{}, nil
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var config Config
	var err error
	if format == "json" {
		err = json.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}
