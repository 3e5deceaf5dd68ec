package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/util"
)

type sample struct {
	Experiment string     `json:"experiment"`
	Times      []*float64 `json:"times"`
	Calls      [][]int    `json:"recursive_calls"`
}

func TestAppendReadAll(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "out", "results.json"))

	first := sample{Experiment: "elevator.mcrl2", Times: []*float64{util.Ptr(1.5), nil, util.Ptr(0.0)}, Calls: [][]int{{1, 2}, nil, {}}}
	second := sample{Experiment: "minepump_fts.mcrl2"}
	for _, rec := range []sample{first, second} {
		if err := s.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := ReadAll[sample](s)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Experiment != "elevator.mcrl2" || got[1].Experiment != "minepump_fts.mcrl2" {
		t.Fatalf("records out of order: %+v", got)
	}

	times := got[0].Times
	if len(times) != 3 || times[0] == nil || *times[0] != 1.5 {
		t.Fatalf("unexpected times %v", times)
	}
	if times[1] != nil {
		t.Error("null must stay distinct from zero")
	}
	if times[2] == nil || *times[2] != 0 {
		t.Error("zero must stay distinct from null")
	}
	if got[0].Calls[1] != nil || got[0].Calls[2] == nil {
		t.Errorf("null and empty call lists must round-trip: %#v", got[0].Calls)
	}
}

func TestAppendWritesOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	s := Open(path)
	for i := 0; i < 3; i++ {
		if err := s.Append(map[string]int{"n": i}); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\"n\":0}\n{\"n\":1}\n{\"n\":2}\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}
}

func TestAppendKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{\"experiment\":\"old\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Open(path).Append(sample{Experiment: "new"}); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAll[sample](Open(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Experiment != "old" || got[1].Experiment != "new" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestEachSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{\"n\":1}\n\n   \n{\"n\":2}"), 0o644); err != nil {
		t.Fatal(err)
	}
	var lines []string
	err := Open(path).Each(func(line []byte) error {
		lines = append(lines, string(line))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(lines, "|") != `{"n":1}|{"n":2}` {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestReadAllMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{\"experiment\":\"a\"}\nnot json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadAll[sample](Open(path))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "results.json:2") {
		t.Fatalf("expected line number in %q", err.Error())
	}
}

func TestReadAllMissingFile(t *testing.T) {
	_, err := ReadAll[sample](Open(filepath.Join(t.TempDir(), "nope.json")))
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
