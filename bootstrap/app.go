package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/observability"
)

// App represents a command with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config
// interface.
type App[C Config] struct {
	Name      string
	Version   string
	Cfg       C
	Logger    *logger.Logger
	Summary   *Summary
	Telemetry *observability.Telemetry

	gracefulTimeout time.Duration
	telemetryCfg    *observability.Config
	summaryOut      io.Writer
	quiet           bool

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stderr,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summary != nil {
		app.summaryOut = o.summary
	}
	app.telemetryCfg = o.telemetry
	app.quiet = o.quiet

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// Metrics returns the pipeline metrics, or nil before RunTask set up
// telemetry. A nil *observability.Metrics records nothing.
func (a *App[C]) Metrics() *observability.Metrics {
	if a.Telemetry == nil {
		return nil
	}
	return a.Telemetry.Metrics
}

// RunTask executes a finite task with the full lifecycle: telemetry setup,
// start hooks, summary, task, stop hooks, telemetry shutdown. The task's
// context is canceled on SIGINT or SIGTERM. The task's error takes
// precedence over shutdown errors.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("shutdown after failed startup", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}

	taskCtx, stopSignals := a.signalContext(ctx)
	defer stopSignals()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// signalContext derives a context canceled by SIGINT/SIGTERM.
func (a *App[C]) signalContext(ctx context.Context) (context.Context, func()) {
	taskCtx, cancel := context.WithCancel(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Warn("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	return taskCtx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// startup sets up telemetry, runs the start hooks and shows the summary.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Debug("starting", logger.Fields("name", a.Name, "version", a.Version))

	base := a.Cfg.GetServiceConfig()
	cfg := observability.Config{}
	if a.telemetryCfg != nil {
		cfg = *a.telemetryCfg
	}
	tel, err := observability.Setup(ctx, cfg, observability.Service{
		Name:        base.Name,
		Version:     base.Version,
		Environment: base.Environment,
	})
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	a.Telemetry = tel
	if tel.Enabled() {
		a.Summary.TrackSetting("telemetry", cfg.Endpoint)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	if !a.quiet {
		a.Summary.Display(a.summaryOut)
	}
	return nil
}

// Shutdown runs the stop hooks and flushes telemetry. Use when managing your
// own lifecycle instead of RunTask.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs the stop hooks and shuts telemetry down within the graceful
// timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Error("telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Debug("shutdown complete")
	return shutdownErr
}
