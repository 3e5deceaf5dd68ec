package process

import (
	"context"
	"time"
)

// Config configures a process adapter.
type Config struct {
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the per-invocation deadline. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Executor runs a command and streams its output lines to a handler.
type Executor interface {
	Stream(ctx context.Context, cmd Command, handle LineHandler) (*Result, error)
}

// Adapter applies configured defaults to every invocation.
type Adapter struct {
	config Config
}

var _ Executor = (*Adapter)(nil)

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{config: cfg}
}

// Run executes a command with buffered output, applying adapter-level defaults.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	ctx, cancel := a.prepare(ctx, &cmd)
	defer cancel()
	return Run(ctx, cmd)
}

// Stream executes a command with streamed output, applying adapter-level defaults.
func (a *Adapter) Stream(ctx context.Context, cmd Command, handle LineHandler) (*Result, error) {
	ctx, cancel := a.prepare(ctx, &cmd)
	defer cancel()
	return Stream(ctx, cmd, handle)
}

func (a *Adapter) prepare(ctx context.Context, cmd *Command) (context.Context, context.CancelFunc) {
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		return context.WithTimeout(ctx, a.config.Timeout)
	}
	return ctx, func() {}
}
