package process

import (
	"io"
	"time"

	"github.com/kbukum/vpgbench/logger"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
	// Log receives every output line at debug level before the line handler
	// sees it. Defaults to the "process" component logger.
	Log *logger.Logger
}

// Argv returns the binary followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Binary}, c.Args...)
}

// LineHandler observes one line of combined output while the process runs.
// Lines are passed without the trailing newline and surrounding whitespace.
type LineHandler func(line string)
