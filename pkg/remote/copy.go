package remote

import (
	"context"
	"io"
	"sync"
)

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// CopyContext copies src to dst, stopping with ctx.Err() once ctx is done
func CopyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	return io.Copy(dst, &contextReader{ctx: ctx, r: src})
}

// OutputBuffer collects command output and optionally tees it to a passthrough writer.
// Safe for use as both Stdout and Stderr of the same command.
type OutputBuffer struct {
	mu          sync.Mutex
	buf         []byte
	passthrough io.Writer
}

// NewOutputBuffer creates a buffer that also writes to passthrough when it is non-nil
func NewOutputBuffer(passthrough io.Writer) *OutputBuffer {
	return &OutputBuffer{passthrough: passthrough}
}

func (b *OutputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if b.passthrough != nil {
		// Passthrough is best effort; the collected output is what gets reported.
		_, _ = b.passthrough.Write(p)
	}
	return len(p), nil
}

// Bytes returns a copy of everything written so far
func (b *OutputBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}
