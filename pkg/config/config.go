package config

import (
	"fmt"
	"io"
	"time"

	"github.com/williamokano/site_pusher/pkg/deploy"
	"github.com/williamokano/site_pusher/pkg/remote"
)

const (
	TransportSSH   = "ssh"
	TransportLocal = "local"
)

// Config is the root configuration structure
type Config struct {
	// Remote host
	RemoteUser string `json:"remote_user,omitempty" yaml:"remote_user,omitempty"`
	RemoteHost string `json:"remote_host,omitempty" yaml:"remote_host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"` // default: 22

	// Site layout
	Domain       string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Subdomain    string `json:"subdomain,omitempty" yaml:"subdomain,omitempty"`
	WebRoot      string `json:"web_root,omitempty" yaml:"web_root,omitempty"`           // default: /var/www
	OutputDir    string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`       // default: _site
	ArchiveName  string `json:"archive_name,omitempty" yaml:"archive_name,omitempty"`   // default: _site.zip
	BuildCommand string `json:"build_command,omitempty" yaml:"build_command,omitempty"` // default: jekyll build
	WorkDir      string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`           // default: .

	// Channel
	Transport             string `json:"transport,omitempty" yaml:"transport,omitempty"` // ssh, local (default: ssh)
	KeyPath               string `json:"key_path,omitempty" yaml:"key_path,omitempty"`
	KeyPassphrase         string `json:"key_passphrase,omitempty" yaml:"key_passphrase,omitempty"`
	Password              string `json:"password,omitempty" yaml:"password,omitempty"`
	KnownHosts            string `json:"known_hosts,omitempty" yaml:"known_hosts,omitempty"` // default: ~/.ssh/known_hosts
	InsecureIgnoreHostKey bool   `json:"insecure_ignore_host_key,omitempty" yaml:"insecure_ignore_host_key,omitempty"`
	UseAgent              *bool  `json:"use_agent,omitempty" yaml:"use_agent,omitempty"`             // default: true
	ConnectTimeout        string `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"` // Go duration, default: 30s

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error (default: info)
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json, console (default: console)
}

// GetPort returns the SSH port (defaults to 22)
func (c *Config) GetPort() int {
	if c.Port > 0 {
		return c.Port
	}
	return 22
}

func (c *Config) GetWebRoot() string {
	if c.WebRoot != "" {
		return c.WebRoot
	}
	return deploy.DefaultWebRoot
}

func (c *Config) GetOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return deploy.DefaultOutputDir
}

func (c *Config) GetArchiveName() string {
	if c.ArchiveName != "" {
		return c.ArchiveName
	}
	return deploy.DefaultArchiveName
}

func (c *Config) GetBuildCommand() string {
	if c.BuildCommand != "" {
		return c.BuildCommand
	}
	return deploy.DefaultBuildCommand
}

func (c *Config) GetWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return "."
}

// GetTransport returns the channel type (defaults to ssh)
func (c *Config) GetTransport() string {
	if c.Transport != "" {
		return c.Transport
	}
	return TransportSSH
}

// GetUseAgent reports whether ssh-agent keys are offered (defaults to true)
func (c *Config) GetUseAgent() bool {
	if c.UseAgent != nil {
		return *c.UseAgent
	}
	return true
}

// GetConnectTimeout parses connect_timeout (defaults to 30s)
func (c *Config) GetConnectTimeout() (time.Duration, error) {
	if c.ConnectTimeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid connect_timeout %q: %w", c.ConnectTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid connect_timeout %q: must be positive", c.ConnectTimeout)
	}
	return d, nil
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to console)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "console"
}

// DeployConfig returns the values the deploy procedure needs
func (c *Config) DeployConfig(dryRun bool) deploy.Config {
	return deploy.Config{
		Domain:       c.Domain,
		Subdomain:    c.Subdomain,
		WebRoot:      c.GetWebRoot(),
		OutputDir:    c.GetOutputDir(),
		ArchiveName:  c.GetArchiveName(),
		BuildCommand: c.GetBuildCommand(),
		WorkDir:      c.GetWorkDir(),
		DryRun:       dryRun,
	}
}

// ChannelConfig returns the remote channel configuration. Command output is teed to output.
func (c *Config) ChannelConfig(output io.Writer) (remote.Config, error) {
	cfg := remote.Config{
		Type:    c.GetTransport(),
		Options: map[string]interface{}{},
		Output:  output,
	}

	if cfg.Type == TransportLocal {
		return cfg, nil
	}

	timeout, err := c.GetConnectTimeout()
	if err != nil {
		return remote.Config{}, err
	}

	cfg.Name = fmt.Sprintf("%s@%s", c.RemoteUser, c.RemoteHost)
	cfg.Options["host"] = c.RemoteHost
	cfg.Options["user"] = c.RemoteUser
	cfg.Options["port"] = c.GetPort()
	cfg.Options["connect_timeout"] = timeout
	cfg.Options["use_agent"] = c.GetUseAgent()
	cfg.Options["insecure_ignore_host_key"] = c.InsecureIgnoreHostKey
	if c.Password != "" {
		cfg.Options["password"] = c.Password
	}
	if c.KeyPath != "" {
		cfg.Options["key_path"] = c.KeyPath
	}
	if c.KeyPassphrase != "" {
		cfg.Options["key_passphrase"] = c.KeyPassphrase
	}
	if c.KnownHosts != "" {
		cfg.Options["known_hosts"] = c.KnownHosts
	}

	return cfg, nil
}
