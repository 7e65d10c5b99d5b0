// Package executor runs the external programs behind desktop hooks.
package executor

import (
	"context"
	"os/exec"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 10 * time.Second

// Client implements domain.CommandExecutor on os/exec.
type Client struct {
	timeout time.Duration
}

// NewClient creates a client that kills programs running longer than timeout.
// A non-positive timeout disables the limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{timeout: timeout}
}

var _ domain.CommandExecutor = (*Client)(nil)

// Execute runs cmd and returns stdout and stderr interleaved.
func (c *Client) Execute(ctx context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	// #nosec G204 - hook commands come from the user's own config
	proc := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	proc.Dir = cmd.Dir
	proc.WaitDelay = time.Second
	return proc.CombinedOutput()
}
