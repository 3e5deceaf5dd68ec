package staleness

import (
	"io/fs"
	"os"

	"github.com/kbukum/vpgbench/logger"
)

// StatFunc returns file information for a path. os.Stat by default.
type StatFunc func(path string) (fs.FileInfo, error)

// Tracker answers staleness questions for build stages.
type Tracker struct {
	// Force makes every output stale.
	Force bool
	// Stat overrides how modification times are read.
	Stat StatFunc
	// Log receives stat failures at debug level.
	Log *logger.Logger
}

// New returns a tracker using os.Stat and the "staleness" component logger.
func New(force bool) *Tracker {
	return &Tracker{Force: force}
}

// IsStale reports whether output must be rebuilt from input: always when
// force is set, when either stat fails, or when input is strictly newer.
func IsStale(input, output string, force bool) bool {
	return New(force).Stale(output, input)
}

// Stale reports whether output is stale relative to any of inputs. With no
// inputs an output is stale only when it cannot be stat'ed.
func (t *Tracker) Stale(output string, inputs ...string) bool {
	if t.Force {
		return true
	}
	out, err := t.stat(output)
	if err != nil {
		t.log().Debug("output not readable, treating as stale", logger.Fields(
			logger.FieldFile, output,
			logger.FieldError, err.Error(),
		))
		return true
	}
	for _, input := range inputs {
		in, err := t.stat(input)
		if err != nil {
			t.log().Debug("input not readable, treating as stale", logger.Fields(
				logger.FieldFile, input,
				logger.FieldError, err.Error(),
			))
			return true
		}
		if in.ModTime().After(out.ModTime()) {
			return true
		}
	}
	return false
}

func (t *Tracker) stat(path string) (fs.FileInfo, error) {
	if t.Stat != nil {
		return t.Stat(path)
	}
	return os.Stat(path)
}

func (t *Tracker) log() *logger.Logger {
	if t.Log != nil {
		return t.Log
	}
	return logger.Get("staleness")
}
