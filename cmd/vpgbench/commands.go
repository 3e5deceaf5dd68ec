package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kbukum/vpgbench/aggregate"
	"github.com/kbukum/vpgbench/bootstrap"
	"github.com/kbukum/vpgbench/config"
	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/experiment"
	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/prepare"
	"github.com/kbukum/vpgbench/process"
	"github.com/kbukum/vpgbench/report"
	"github.com/kbukum/vpgbench/staleness"
	"github.com/kbukum/vpgbench/store"
	"github.com/kbukum/vpgbench/version"
)

type command struct {
	usage   string
	summary string
	flags   func(fs *pflag.FlagSet)
	// logFile mirrors the log to <results.dir>/<name>.log.
	logFile bool
	quiet   bool
	// lenientConfig runs without the application lifecycle, even when the
	// configuration cannot be loaded.
	lenientConfig bool
	setup         func(ctx context.Context, inv *invocation) error
	run           func(ctx context.Context, inv *invocation) error
}

var commands = map[string]*command{
	"prepare": {
		usage:   "prepare [--config f] [--cases f] [--force]",
		summary: "Build the variability parity games of every case.",
		flags: func(fs *pflag.FlagSet) {
			casesFlags(fs)
			fs.Bool("force", false, "rebuild every artifact regardless of timestamps")
		},
		logFile: true,
		setup:   setupPrepare,
		run:     runPrepare,
	},
	"run": {
		usage:   "run [--config f] [--cases f] [--results dir] [--variant v]...",
		summary: "Solve every prepared game and append the measurements to the results store.",
		flags: func(fs *pflag.FlagSet) {
			casesFlags(fs)
			fs.StringSlice("variant", nil, "solve variant to run (repeatable): family, product, family-optimised-left")
		},
		logFile: true,
		setup:   setupSolver,
		run:     runExperiments,
	},
	"verify": {
		usage:   "verify [--config f] [--cases f]",
		summary: "Solve every prepared game with the family variants and verify the solutions.",
		flags:   casesFlags,
		logFile: true,
		setup:   setupSolver,
		run:     runVerify,
	},
	"table": {
		usage:   "table [--unit s|ms] [--precision n] [--solutions] [results.json]",
		summary: "Print the stored results as a LaTeX table.",
		flags: func(fs *pflag.FlagSet) {
			fs.String("results", "", "results directory")
			fs.String("unit", "", "time unit of the table: s or ms")
			fs.Int("precision", 1, "decimals of the time columns")
			fs.Bool("solutions", false, "append the winning-set sizes of the family variant")
		},
		quiet: true,
		run:   runTable,
	},
	"version": {
		usage:         "version",
		summary:       "Print the version of vpgbench and of the external tools.",
		quiet:         true,
		lenientConfig: true,
		run:           runVersion,
	},
}

func casesFlags(fs *pflag.FlagSet) {
	fs.String("cases", "", "case manifest (YAML)")
	fs.String("results", "", "results directory")
}

// invocation is one execution of a command.
type invocation struct {
	name   string
	cmd    *command
	cfg    *config.Bench
	args   []string
	stdout io.Writer
	stderr io.Writer
	app    *bootstrap.App[*config.Bench]

	manifest *prepare.Manifest
	tools    prepare.Tools
	variants []experiment.Variant
}

func (inv *invocation) execute(ctx context.Context) error {
	opts := []bootstrap.Option{
		bootstrap.WithTelemetry(inv.cfg.Observability),
		bootstrap.WithSummaryOutput(inv.stderr),
	}
	if inv.cmd.quiet {
		opts = append(opts, bootstrap.WithQuiet())
	}
	app, err := bootstrap.NewApp(inv.cfg, opts...)
	if err != nil {
		fmt.Fprintf(inv.stderr, "vpgbench: %v\n", err)
		return err
	}
	inv.app = app

	if inv.cmd.logFile {
		app.OnStart(inv.attachLog)
	}
	if inv.cmd.setup != nil {
		app.OnStart(func(ctx context.Context) error { return inv.cmd.setup(ctx, inv) })
	}

	// Task failures are logged while the log file is still attached; startup
	// failures after the application stopped.
	reported := false
	err = app.RunTask(ctx, func(ctx context.Context) error {
		err := inv.cmd.run(ctx, inv)
		inv.reportError(err)
		reported = true
		return err
	})
	if !reported {
		inv.reportError(err)
	}
	return err
}

// attachLog mirrors every log event to the command's log file until the
// application stops.
func (inv *invocation) attachLog(context.Context) error {
	base := inv.app.Logger
	fl, err := base.AttachFile(inv.cfg.Results.LogPath(inv.name))
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(fl)
	inv.app.Logger = fl
	inv.app.OnStop(func(context.Context) error {
		logger.SetGlobalLogger(base)
		inv.app.Logger = base
		return fl.Close()
	})
	return nil
}

func (inv *invocation) reportError(err error) {
	if err == nil {
		return
	}
	log := inv.app.Logger
	if errors.IsCode(err, errors.ErrCodeInterrupted) {
		log.Warn("interrupted")
		return
	}
	fields := logger.Fields(logger.FieldError, err.Error())
	if appErr, ok := errors.AsAppError(err); ok {
		for _, key := range []string{"binary", "command", "exit_code"} {
			if v, ok := appErr.Details[key]; ok {
				fields[key] = v
			}
		}
	}
	log.Error(inv.name+" failed", fields)
}

// resolve locates each tool and records it in the startup summary. All
// missing tools are reported together.
func (inv *invocation) resolve(tools ...toolRef) error {
	var errs []error
	for _, t := range tools {
		path, err := process.LookPath(t.name, t.dir)
		inv.app.Summary.TrackTool(t.name, path, err == nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*t.dst = path
	}
	return stderrors.Join(errs...)
}

type toolRef struct {
	name string
	dir  string
	dst  *string
}

func (inv *invocation) loadManifest() error {
	m, err := prepare.LoadManifest(inv.cfg.CasesFile)
	if err != nil {
		return err
	}
	inv.manifest = m
	inv.app.Summary.TrackSetting("cases", fmt.Sprintf("%s (%d)", inv.cfg.CasesFile, len(m.Cases)))
	return nil
}

func setupPrepare(_ context.Context, inv *invocation) error {
	t := inv.cfg.Tools
	if err := inv.resolve(
		toolRef{t.Compiler, t.MCRL2BinPath, &inv.tools.Compiler},
		toolRef{t.Generator, t.MCRL2BinPath, &inv.tools.Generator},
		toolRef{t.Merc, t.MercBinPath, &inv.tools.Merc},
	); err != nil {
		return err
	}
	if err := inv.loadManifest(); err != nil {
		return err
	}
	inv.app.Summary.TrackSetting("force", strconv.FormatBool(inv.cfg.Force))
	return inv.manifest.CheckInputs()
}

func runPrepare(ctx context.Context, inv *invocation) error {
	runner := &prepare.Runner{
		Exec:    process.NewAdapter(inv.cfg.Tools.Process()),
		Tools:   inv.tools,
		Tracker: staleness.New(inv.cfg.Force),
		Metrics: inv.app.Metrics(),
	}
	return runner.PrepareAll(ctx, inv.manifest.Cases)
}

func setupSolver(_ context.Context, inv *invocation) error {
	t := inv.cfg.Tools
	if err := inv.resolve(toolRef{t.Merc, t.MercBinPath, &inv.tools.Merc}); err != nil {
		return err
	}
	if err := inv.loadManifest(); err != nil {
		return err
	}
	variants, err := inv.cfg.Variants()
	if err != nil {
		return err
	}
	inv.variants = variants
	inv.app.Summary.TrackSetting("variants", strings.Join(inv.cfg.Solver.Variants, ", "))
	inv.app.Summary.TrackSetting("results", inv.cfg.Results.Path())
	return nil
}

func (inv *invocation) solver() (*experiment.Runner, error) {
	patterns, err := inv.cfg.Patterns()
	if err != nil {
		return nil, err
	}
	return &experiment.Runner{
		Exec:         process.NewAdapter(inv.cfg.SolverProcess()),
		Merc:         inv.tools.Merc,
		NodeCapacity: inv.cfg.Solver.NodeCapacity,
		Patterns:     &patterns,
		Variants:     inv.variants,
		Metrics:      inv.app.Metrics(),
	}, nil
}

func runExperiments(ctx context.Context, inv *invocation) error {
	runner, err := inv.solver()
	if err != nil {
		return err
	}
	runner.Store = store.Open(inv.cfg.Results.Path())
	runner.RunID = uuid.NewString()
	inv.app.Logger.Info("starting experiments", logger.Fields("run_id", runner.RunID))
	return runner.RunAll(ctx, inv.manifest.Cases)
}

func runVerify(ctx context.Context, inv *invocation) error {
	runner, err := inv.solver()
	if err != nil {
		return err
	}
	return runner.Verify(ctx, inv.manifest.Cases)
}

func runTable(_ context.Context, inv *invocation) error {
	path := inv.cfg.Results.Path()
	switch len(inv.args) {
	case 0:
	case 1:
		path = inv.args[0]
	default:
		return errors.InvalidInput("args", "table takes at most one results file")
	}
	rows, err := aggregate.Aggregate(path)
	if err != nil {
		return err
	}
	return report.Render(inv.stdout, rows, inv.cfg.Report)
}

func runVersion(ctx context.Context, inv *invocation) error {
	fmt.Fprintf(inv.stdout, "vpgbench %s\n", version.Get())
	t := inv.cfg.Tools
	for _, ref := range []struct{ name, dir string }{
		{t.Compiler, t.MCRL2BinPath},
		{t.Generator, t.MCRL2BinPath},
		{t.Merc, t.MercBinPath},
	} {
		path, err := process.LookPath(ref.name, ref.dir)
		if err != nil {
			fmt.Fprintf(inv.stdout, "%s: not found\n", ref.name)
			continue
		}
		v, err := version.Tool(ctx, path)
		if err != nil {
			v = "unknown (" + err.Error() + ")"
		}
		fmt.Fprintf(inv.stdout, "%s: %s\n", ref.name, v)
	}
	return nil
}
