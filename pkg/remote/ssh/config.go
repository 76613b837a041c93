package ssh

import "time"

type Config struct {
	Host                  string        `json:"host"`
	Port                  int           `json:"port"` // Default: 22
	User                  string        `json:"user"`
	Password              string        `json:"password"`                 // Optional
	KeyPath               string        `json:"key_path"`                 // Optional: path to private key
	KeyPassphrase         string        `json:"key_passphrase"`           // Optional
	UseAgent              bool          `json:"use_agent"`                // Default: true, uses SSH_AUTH_SOCK
	KnownHostsPath        string        `json:"known_hosts"`              // Default: ~/.ssh/known_hosts
	InsecureIgnoreHostKey bool          `json:"insecure_ignore_host_key"` // Default: false
	ConnectTimeout        time.Duration `json:"connect_timeout"`          // Default: 30s
}

const (
	defaultPort           = 22
	defaultConnectTimeout = 30 * time.Second
)
