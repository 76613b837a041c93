package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable the config reads
const EnvPrefix = "SITE_PUSHER_"

// ApplyEnv overlays SITE_PUSHER_* variables onto c. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	stringFields := map[string]*string{
		"REMOTE_USER":     &c.RemoteUser,
		"REMOTE_HOST":     &c.RemoteHost,
		"DOMAIN":          &c.Domain,
		"SUBDOMAIN":       &c.Subdomain,
		"WEB_ROOT":        &c.WebRoot,
		"OUTPUT_DIR":      &c.OutputDir,
		"ARCHIVE_NAME":    &c.ArchiveName,
		"BUILD_COMMAND":   &c.BuildCommand,
		"WORK_DIR":        &c.WorkDir,
		"TRANSPORT":       &c.Transport,
		"KEY_PATH":        &c.KeyPath,
		"KEY_PASSPHRASE":  &c.KeyPassphrase,
		"PASSWORD":        &c.Password,
		"KNOWN_HOSTS":     &c.KnownHosts,
		"CONNECT_TIMEOUT": &c.ConnectTimeout,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FORMAT":      &c.LogFormat,
	}
	for name, field := range stringFields {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", EnvPrefix, err)
		}
		c.Port = port
	}

	if v, ok := lookup(EnvPrefix + "INSECURE_IGNORE_HOST_KEY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sINSECURE_IGNORE_HOST_KEY: %w", EnvPrefix, err)
		}
		c.InsecureIgnoreHostKey = b
	}

	if v, ok := lookup(EnvPrefix + "USE_AGENT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sUSE_AGENT: %w", EnvPrefix, err)
		}
		c.UseAgent = &b
	}

	return nil
}
