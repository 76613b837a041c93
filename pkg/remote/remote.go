package remote

import (
	"context"
	"io"
	"time"
)

// Channel executes shell commands on, and copies files to, a single remote host
type Channel interface {
	// Name returns a human-readable name for this channel (e.g., "harlan@harlanhaskins.com")
	Name() string

	// Type returns the transport type (ssh, local)
	Type() string

	// Run executes a shell command on the remote host and waits for it to finish.
	// A non-zero exit status is returned as *CommandError; the result is still populated.
	Run(ctx context.Context, command string) (*CommandResult, error)

	// Put copies a local file to an absolute path on the remote host,
	// replacing any existing file at that path
	Put(ctx context.Context, localPath string, remotePath string) error

	// Close releases resources (connections, sessions)
	Close() error
}

// CommandResult is the outcome of a command that ran on the remote host
type CommandResult struct {
	Command    string
	ExitStatus int
	Output     []byte // Combined stdout and stderr
	Duration   time.Duration
}

// OK reports whether the command exited with status 0
func (r *CommandResult) OK() bool {
	return r.ExitStatus == 0
}

// Config represents channel configuration
type Config struct {
	Name    string                 `json:"name"`    // User-friendly name, defaults to user@host
	Type    string                 `json:"type"`    // Transport type: ssh, local
	Options map[string]interface{} `json:"options"` // Transport-specific options

	// Output receives command output as it is produced. Optional.
	Output io.Writer `json:"-"`
}
