package process

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/kbukum/vpgbench/logger"
)

// Stream executes a subprocess with stdout and stderr merged into a single
// stream, and delivers every completed line to the command's log sink and then
// to handle (which may be nil) while the process is still running. It blocks
// until the process exits and its output is drained.
//
// Output is never accumulated: memory is bounded by the longest line. A slow
// handler stalls the child on a full pipe rather than growing a buffer.
//
// A non-zero exit yields a PROCESS_FAILED error; cancellation of ctx yields
// INTERRUPTED (or TIMEOUT for an expired deadline) after the process group
// has been terminated.
func Stream(ctx context.Context, cmd Command, handle LineHandler) (*Result, error) {
	c, err := newCmd(ctx, cmd)
	if err != nil {
		return nil, err
	}

	log := cmd.Log
	if log == nil {
		log = logger.Get("process")
	}
	log = log.WithFields(logger.Fields(logger.FieldBinary, cmd.Binary))

	pr, pw := io.Pipe()
	// The same comparable writer for both streams makes exec serialize writes.
	c.Stdout = pw
	c.Stderr = pw

	start := time.Now()
	if err := c.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, startError(ctx, cmd, err)
	}

	done := make(chan error, 1)
	go func() {
		err := c.Wait()
		pw.Close()
		done <- err
	}()

	lines := readLines(pr, func(line string) {
		log.Debug(line)
		if handle != nil {
			handle(line)
		}
	})
	err = <-done

	result := &Result{
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
		Lines:    lines,
	}
	if err != nil {
		return result, waitError(ctx, cmd, result, err)
	}
	return result, nil
}

// readLines calls fn for every line read from r until EOF and returns the
// number of lines seen. A final line without a trailing newline still counts.
func readLines(r io.Reader, fn func(string)) int {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimSpace(line))
			n++
		}
		if err != nil {
			// Drain so the writer side never blocks on an abandoned pipe.
			_, _ = io.Copy(io.Discard, br)
			return n
		}
	}
}
