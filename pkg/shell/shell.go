package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// ExecOptions configures command execution.
type ExecOptions struct {
	// Dir is the working directory for the command.
	Dir string

	// Timeout is the maximum execution time.
	// If zero, no timeout is applied.
	Timeout time.Duration

	// Env contains environment variables for the command.
	// Each entry should be in the form "KEY=value". Nil inherits the current environment.
	Env []string

	// Output receives combined stdout and stderr as the command runs. Optional.
	Output io.Writer
}

// Result contains the result of a command execution.
type Result struct {
	// Output is the combined stdout and stderr.
	Output []byte

	// ExitCode is the exit code of the command, -1 if it never started or was killed.
	ExitCode int

	// Duration is how long the command took to execute.
	Duration time.Duration
}

// ExitError reports a local command that exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Runner executes local commands. ExecRunner is the real implementation.
type Runner interface {
	Run(ctx context.Context, opts ExecOptions, cmdParts []string) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, opts ExecOptions, cmdParts []string) (*Result, error) {
	return Run(ctx, opts, cmdParts)
}

// Run executes a command with the given options and waits for it.
// A non-zero exit is returned as *ExitError alongside the populated result.
func Run(ctx context.Context, opts ExecOptions, cmdParts []string) (*Result, error) {
	if len(cmdParts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cmdParts[0], cmdParts[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.WaitDelay = time.Second

	// One writer value for both streams, so exec serialises the writes
	var buf bytes.Buffer
	var out io.Writer = &buf
	if opts.Output != nil {
		out = io.MultiWriter(&buf, opts.Output)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Output:   buf.Bytes(),
		Duration: time.Since(start),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s: %w", FormatCommand(cmdParts), ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &ExitError{
				Command:  FormatCommand(cmdParts),
				ExitCode: result.ExitCode,
				Output:   string(result.Output),
			}
		}

		return result, fmt.Errorf("command failed: %w", err)
	}

	return result, nil
}

// ParseCommand parses a shell-quoted command string into parts.
//
// Example:
//
//	"bundle exec jekyll build --destination \"my site\"" -> ["bundle", "exec", "jekyll", "build", "--destination", "my site"]
func ParseCommand(cmdStr string) ([]string, error) {
	parts, err := shellquote.Split(cmdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command string: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command string")
	}
	return parts, nil
}

// FormatCommand formats command parts into a readable string for logging.
// Example: ["git", "commit", "-m", "my message"] -> "git commit -m 'my message'"
func FormatCommand(cmdParts []string) string {
	if len(cmdParts) == 0 {
		return "<empty command>"
	}

	quoted := make([]string, len(cmdParts))
	for i, part := range cmdParts {
		if strings.ContainsAny(part, " \t\n\"'") {
			quoted[i] = shellquote.Join(part)
		} else {
			quoted[i] = part
		}
	}

	return strings.Join(quoted, " ")
}

// QuoteArgs joins args into a command line that a POSIX shell splits back into
// exactly the same args. Used to build commands for the remote shell.
func QuoteArgs(args ...string) string {
	return shellquote.Join(args...)
}
