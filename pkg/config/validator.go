package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateDocument validates a decoded configuration document against the JSON schema
func ValidateDocument(doc interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, fmt.Sprintf("  - %s", desc))
		}
		return fmt.Errorf("configuration file is not valid:\n%s", strings.Join(problems, "\n"))
	}

	return nil
}

// Validate checks the merged configuration (file, environment and flags) before a push
func (c *Config) Validate() error {
	var problems []string

	switch c.GetTransport() {
	case TransportSSH:
		if c.RemoteUser == "" {
			problems = append(problems, "  - remote_user: required for the ssh transport")
		}
		if c.RemoteHost == "" {
			problems = append(problems, "  - remote_host: required for the ssh transport")
		}
		if c.Port < 0 || c.Port > 65535 {
			problems = append(problems, fmt.Sprintf("  - port: must be between 1 and 65535, got %d", c.Port))
		}
		if _, err := c.GetConnectTimeout(); err != nil {
			problems = append(problems, fmt.Sprintf("  - connect_timeout: %v", err))
		}
	case TransportLocal:
	default:
		problems = append(problems, fmt.Sprintf("  - transport: unknown transport %q (available: ssh, local)", c.Transport))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(problems, "\n"))
	}

	return c.DeployConfig(false).Validate()
}
