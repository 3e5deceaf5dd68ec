package process_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/process"
)

func TestStreamMergesStdoutAndStderr(t *testing.T) {
	var lines []string
	result, err := process.Stream(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo one; echo two >&2; echo '  three  '"},
	}, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"one", "two", "three"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	if result.Lines != 3 {
		t.Fatalf("expected 3 lines, got %d", result.Lines)
	}
	if result.Stdout != nil || result.Stderr != nil {
		t.Fatal("streamed output must not be buffered in the result")
	}
}

func TestStreamDeliversLinesBeforeExit(t *testing.T) {
	// The child blocks until the handler has seen its first line and created
	// the marker file; a handler that only ran after exit would deadlock.
	marker := filepath.Join(t.TempDir(), "seen")
	script := fmt.Sprintf("echo ready; while [ ! -f %q ]; do sleep 0.01; done; echo done", marker)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var lines []string
	_, err := process.Stream(ctx, process.Command{Binary: "sh", Args: []string{"-c", script}}, func(line string) {
		lines = append(lines, line)
		if line == "ready" {
			if err := os.WriteFile(marker, nil, 0o644); err != nil {
				t.Errorf("write marker: %v", err)
			}
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "done" {
		t.Fatalf("expected [ready done], got %v", lines)
	}
}

func TestStreamLastLineWithoutNewline(t *testing.T) {
	var lines []string
	_, err := process.Stream(context.Background(), process.Command{
		Binary: "printf",
		Args:   []string{"a\nb"},
	}, func(line string) { lines = append(lines, line) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "b" {
		t.Fatalf("expected [a b], got %v", lines)
	}
}

func TestStreamLongLine(t *testing.T) {
	var got int
	_, err := process.Stream(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "head -c 200000 /dev/zero | tr '\\0' 'x'; echo"},
	}, func(line string) {
		if len(line) > got {
			got = len(line)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 200000 {
		t.Fatalf("expected a 200000 byte line, got %d", got)
	}
}

func TestStreamNilHandler(t *testing.T) {
	result, err := process.Stream(context.Background(), process.Command{Binary: "echo", Args: []string{"x"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Lines != 1 {
		t.Fatalf("expected 1 line, got %d", result.Lines)
	}
}

func TestStreamExitCode(t *testing.T) {
	var lines []string
	result, err := process.Stream(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo partial; exit 3"},
	}, func(line string) { lines = append(lines, line) })
	if !errors.IsCode(err, errors.ErrCodeProcessFailed) {
		t.Fatalf("expected PROCESS_FAILED, got %v", err)
	}
	if result == nil || result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %+v", result)
	}
	if len(lines) != 1 || lines[0] != "partial" {
		t.Fatalf("output before failure must still be delivered, got %v", lines)
	}
	appErr, _ := errors.AsAppError(err)
	if got := appErr.Details["command"]; got != "sh -c echo partial; exit 3" {
		t.Errorf("expected the command line in details, got %v", got)
	}
}

func TestStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()

	_, err := process.Stream(ctx, process.Command{
		Binary:      "sh",
		Args:        []string{"-c", "echo started; sleep 10"},
		GracePeriod: 500 * time.Millisecond,
	}, func(line string) {
		if line == "started" {
			cancel()
		}
	})
	if !errors.IsCode(err, errors.ErrCodeInterrupted) {
		t.Fatalf("expected INTERRUPTED, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("canceled process was not terminated promptly")
	}
}

func TestAdapterStream(t *testing.T) {
	a := process.NewAdapter(process.Config{GracePeriod: time.Second})
	var seen []string
	_, err := a.Stream(context.Background(), process.Command{Binary: "echo", Args: []string{"via adapter"}}, func(line string) {
		seen = append(seen, line)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 1 || seen[0] != "via adapter" {
		t.Fatalf("unexpected lines %v", seen)
	}
}
