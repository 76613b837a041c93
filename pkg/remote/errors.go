package remote

import (
	"errors"
	"fmt"
)

var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrConnFailed      = errors.New("connection failed")
	ErrHostKeyMismatch = errors.New("host key verification failed")
	ErrCommandFailed   = errors.New("remote command failed")
	ErrTransferFailed  = errors.New("file transfer failed")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// CommandError reports a command that ran to completion with a non-zero exit status
type CommandError struct {
	Command    string
	ExitStatus int
	Output     string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitStatus)
}

// Unwrap lets errors.Is(err, ErrCommandFailed) match
func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// IsConnectionError returns true if the channel never got far enough to run anything
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnFailed) || errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrHostKeyMismatch)
}

// ExitStatus extracts the remote exit status from err, or -1 if err is not a CommandError
func ExitStatus(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitStatus
	}
	return -1
}

// WrapError adds context to an error
func WrapError(channel, operation string, err error) error {
	return fmt.Errorf("%s (%s): %w", operation, channel, err)
}
