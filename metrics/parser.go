package metrics

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Parser accumulates one solver run. It is not safe for concurrent use; use
// a fresh Parser per run.
type Parser struct {
	patterns Patterns
	inW1     bool
	result   TrialResult
}

// NewParser returns a parser matching against patterns.
func NewParser(patterns Patterns) *Parser {
	return &Parser{patterns: patterns}
}

// Consume matches one output line. It has the signature of a
// process.LineHandler.
func (p *Parser) Consume(line string) {
	switch {
	case p.float(p.patterns.Solving, line, &p.result.SolvingTime):
	case p.recursiveCalls(line):
	case p.float(p.patterns.Project, line, &p.result.ProjectTime):
	case p.float(p.patterns.Reachable, line, &p.result.ReachableTime):
	case p.patterns.W1Marker.MatchString(line):
		p.inW1 = true
	case p.winningSet(line):
	}
}

// InPlayer1Section reports whether the W1 marker has been seen.
func (p *Parser) InPlayer1Section() bool {
	return p.inW1
}

// Result returns the metrics gathered so far. The returned value does not
// alias the parser's state.
func (p *Parser) Result() TrialResult {
	r := p.result
	r.RecursiveCalls = slices.Clone(p.result.RecursiveCalls)
	if p.result.Solution != nil {
		r.Solution = make(map[string]WinningSets, len(p.result.Solution))
		for k, v := range p.result.Solution {
			r.Solution[k] = WinningSets{
				Player0: slices.Clone(v.Player0),
				Player1: slices.Clone(v.Player1),
			}
		}
	}
	return r
}

// float stores the first capture of re as seconds. A capture that is not a
// number leaves the line to the remaining patterns.
func (p *Parser) float(re *regexp.Regexp, line string, dst **float64) bool {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return false
	}
	*dst = &v
	return true
}

func (p *Parser) recursiveCalls(line string) bool {
	m := p.patterns.RecursiveCalls.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	p.result.RecursiveCalls = append(p.result.RecursiveCalls, n)
	return true
}

func (p *Parser) winningSet(line string) bool {
	m := p.patterns.WinningSet.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	vertices, ok := parseVertices(m[2])
	if !ok {
		return false
	}
	if p.result.Solution == nil {
		p.result.Solution = make(map[string]WinningSets)
	}
	sets := p.result.Solution[m[1]]
	if p.inW1 {
		sets.Player1 = vertices
	} else {
		sets.Player0 = vertices
	}
	p.result.Solution[m[1]] = sets
	return true
}

// parseVertices parses a comma separated integer list. An empty list is
// valid and yields an empty, non-nil slice.
func parseVertices(s string) ([]int, bool) {
	out := []int{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
