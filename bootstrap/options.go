package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/observability"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	telemetry       *observability.Config
	summary         io.Writer
	quiet           bool
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithTelemetry enables trace and metric export as configured by cfg.
func WithTelemetry(cfg observability.Config) Option {
	return func(o *appOptions) {
		o.telemetry = &cfg
	}
}

// WithSummaryOutput sets where the startup summary is printed. Defaults to
// stderr; stdout is left to the command's output.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summary = w
	}
}

// WithQuiet suppresses the startup summary.
func WithQuiet() Option {
	return func(o *appOptions) {
		o.quiet = true
	}
}
