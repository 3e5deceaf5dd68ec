package prepare

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ruleRegex       = regexp.MustCompile(`^\s*([^=]*[^=\s])\s*=\s*([^=]*[^=\s])\s*$`)
	transitionRegex = regexp.MustCompile(`^\((\s*[0-9]+\s*),\s*(?:"(.*)"|([^",]*))\s*,(\s*[0-9]+\s*)\)\s*$`)
)

// Rules maps an action label to its replacement.
type Rules map[string]string

// Apply returns the replacement for label, or label itself.
func (r Rules) Apply(label string) string {
	if to, ok := r[label]; ok {
		return to
	}
	return label
}

// ParseRules reads one from=to rule per line. Blank and malformed lines are
// ignored; a later rule for the same label wins.
func ParseRules(r io.Reader) (Rules, error) {
	rules := Rules{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if m := ruleRegex.FindStringSubmatch(sc.Text()); m != nil {
			rules[m[1]] = m[2]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("prepare: read rules: %w", err)
	}
	return rules, nil
}

// Relabel copies an Aldebaran state space from r to w, rewriting the label of
// every transition line through rules. Transition lines are written as
// (src,"label",dst); every other line is copied byte for byte.
func Relabel(r io.Reader, w io.Writer, rules Rules) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if werr := writeRelabelled(bw, line, rules); werr != nil {
				return fmt.Errorf("prepare: write relabelled: %w", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("prepare: read state space: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("prepare: write relabelled: %w", err)
	}
	return nil
}

func writeRelabelled(w *bufio.Writer, line string, rules Rules) error {
	body := strings.TrimRight(line, "\r\n")
	m := transitionRegex.FindStringSubmatch(body)
	if m == nil {
		_, err := w.WriteString(line)
		return err
	}
	label := m[2]
	if label == "" {
		label = strings.TrimSpace(m[3])
	}
	_, err := fmt.Fprintf(w, "(%s,\"%s\",%s)%s", strings.TrimSpace(m[1]), rules.Apply(label), strings.TrimSpace(m[4]), line[len(body):])
	return err
}

// RelabelFile relabels src into dst. The result is written to a temporary
// file next to dst and renamed into place, so dst is never left partial.
func RelabelFile(src, dst string, rules Rules) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("prepare: open state space: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("prepare: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Relabel(in, tmp, rules); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("prepare: close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("prepare: rename into place: %w", err)
	}
	return nil
}
