// Command vpgbench prepares variability parity games with mCRL2 and merc-vpg,
// benchmarks the solver variants on them, and renders the results as a LaTeX
// table.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/kbukum/vpgbench/config"
	"github.com/kbukum/vpgbench/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return errors.ExitUsage
	}
	name := args[0]
	switch name {
	case "help", "-h", "--help":
		usage(stdout)
		return errors.ExitOK
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "vpgbench: unknown command %q\n\n", name)
		usage(stderr)
		return errors.ExitUsage
	}

	fs := pflag.NewFlagSet("vpgbench "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.StringP("config", "c", "", "config file (default: ./config.yml if present)")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: vpgbench %s\n\n%s\n\nflags:\n%s", cmd.usage, cmd.summary, fs.FlagUsages())
	}
	if err := fs.Parse(args[1:]); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitUsage
	}

	cfg, err := loadConfig(*configFile, fs)
	if err != nil && !cmd.lenientConfig {
		fmt.Fprintf(stderr, "vpgbench: %v\n", err)
		return errors.ExitStatusOf(err)
	}

	inv := &invocation{name: name, cmd: cmd, cfg: cfg, args: fs.Args(), stdout: stdout, stderr: stderr}
	if cmd.lenientConfig {
		// A broken config must not hide the version.
		cfg.ApplyDefaults()
		return errors.ExitStatusOf(cmd.run(ctx, inv))
	}
	return errors.ExitStatusOf(inv.execute(ctx))
}

// loadConfig layers defaults, the config file, the environment and the
// flags set on the command line.
func loadConfig(path string, fs *pflag.FlagSet) (*config.Bench, error) {
	keys := make(map[string]string)
	for flag, key := range config.FlagKeys {
		if fs.Lookup(flag) != nil {
			keys[flag] = key
		}
	}

	opts := []config.LoaderOption{
		config.WithDefaults(config.Defaults()),
		config.WithFlags(fs, keys),
	}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg := &config.Bench{}
	if err := config.LoadConfig("vpgbench", cfg, opts...); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: vpgbench <command> [flags]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nRun 'vpgbench <command> --help' for the flags of a command.\n")
}
