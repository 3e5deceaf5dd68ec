package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kbukum/vpgbench/errors"
)

// Appender accepts records.
type Appender interface {
	Append(v any) error
}

// JSONL is a newline-delimited JSON file.
type JSONL struct {
	path string
}

var _ Appender = (*JSONL)(nil)

// Open returns the store at path. The file is created on first Append.
func Open(path string) *JSONL {
	return &JSONL{path: path}
}

// Path returns the file the store writes to.
func (s *JSONL) Path() string {
	return s.path
}

// Append encodes v as a single line and appends it to the file.
func (s *JSONL) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return errors.Internal(fmt.Errorf("store: encode record: %w", err))
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Internal(fmt.Errorf("store: create directory: %w", err))
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Internal(fmt.Errorf("store: open %s: %w", s.path, err))
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return errors.Internal(fmt.Errorf("store: append to %s: %w", s.path, err))
	}
	if err := f.Close(); err != nil {
		return errors.Internal(fmt.Errorf("store: close %s: %w", s.path, err))
	}
	return nil
}

// Each calls fn with every non-blank line in file order. Iteration stops at
// the first error, which is returned annotated with the line number.
func (s *JSONL) Each(fn func(line []byte) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("results file", s.path).WithCause(err)
		}
		return errors.Internal(fmt.Errorf("store: open %s: %w", s.path, err))
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for n := 1; ; n++ {
		line, readErr := br.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			if err := fn(trimmed); err != nil {
				return fmt.Errorf("%s:%d: %w", s.path, n, err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return errors.Internal(fmt.Errorf("store: read %s: %w", s.path, readErr))
		}
	}
}

// ReadAll decodes every line of s into a T.
func ReadAll[T any](s *JSONL) ([]T, error) {
	var out []T
	err := s.Each(func(line []byte) error {
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return errors.InvalidInput("record", "malformed JSON line").WithCause(err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
