package process

import "time"

// Result holds the outcome of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output (Run only; Stream never buffers).
	Stdout []byte
	// Stderr is the captured standard error (Run only).
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is the wall-clock time from spawn to exit.
	Duration time.Duration
	// Lines is the number of output lines delivered (Stream only).
	Lines int
}

// Seconds returns the elapsed wall-clock time in seconds.
func (r *Result) Seconds() float64 {
	if r == nil {
		return 0
	}
	return r.Duration.Seconds()
}
