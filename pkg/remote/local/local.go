package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/williamokano/site_pusher/pkg/remote"
)

// Channel runs "remote" commands through sh on this machine. It serves a web root
// mounted locally (or reached through a network filesystem) and end-to-end tests.
type Channel struct {
	name   string
	shell  string
	dir    string
	output io.Writer
}

func init() {
	remote.RegisterChannel("local", func(ctx context.Context, cfg remote.Config) (remote.Channel, error) {
		return New(cfg)
	})
}

// New creates a new local channel
func New(cfg remote.Config) (*Channel, error) {
	shell := "/bin/sh"
	if v, ok := cfg.Options["shell"].(string); ok && v != "" {
		shell = v
	}

	if _, err := exec.LookPath(shell); err != nil {
		return nil, fmt.Errorf("%w: shell %s not found: %v", remote.ErrInvalidConfig, shell, err)
	}

	dir, _ := cfg.Options["dir"].(string)

	name := cfg.Name
	if name == "" {
		name = "local"
	}

	return &Channel{
		name:   name,
		shell:  shell,
		dir:    dir,
		output: cfg.Output,
	}, nil
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "local" }

// Run executes command with "sh -c"
func (c *Channel) Run(ctx context.Context, command string) (*remote.CommandResult, error) {
	cmd := exec.CommandContext(ctx, c.shell, "-c", command)
	cmd.Dir = c.dir
	// Grandchildren can hold the output pipes open after the shell is killed
	cmd.WaitDelay = time.Second

	output := remote.NewOutputBuffer(c.output)
	cmd.Stdout = output
	cmd.Stderr = output

	start := time.Now()
	err := cmd.Run()

	result := &remote.CommandResult{
		Command:  command,
		Output:   output.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, remote.WrapError(c.name, "run", ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitStatus = exitErr.ExitCode()
			return result, &remote.CommandError{
				Command:    command,
				ExitStatus: result.ExitStatus,
				Output:     string(result.Output),
			}
		}

		result.ExitStatus = -1
		return result, remote.WrapError(c.name, "run", fmt.Errorf("%w: %v", remote.ErrCommandFailed, err))
	}

	return result, nil
}

// Put copies a file on the local filesystem
func (c *Channel) Put(ctx context.Context, localPath, remotePath string) error {
	source, err := os.Open(localPath)
	if err != nil {
		return remote.WrapError(c.name, "put", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(remotePath), 0755); err != nil {
		return remote.WrapError(c.name, "mkdir", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	dest, err := os.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return remote.WrapError(c.name, "create", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	if _, err := remote.CopyContext(ctx, dest, source); err != nil {
		dest.Close()
		return remote.WrapError(c.name, "copy", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	if err := dest.Close(); err != nil {
		return remote.WrapError(c.name, "copy", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	return nil
}

// Close is a no-op for the local channel
func (c *Channel) Close() error {
	return nil
}
