package metrics

import (
	"fmt"
	"regexp"
)

// Expressions are the textual patterns matched against solver output. Each
// field other than W1Marker needs the capture groups noted beside it.
type Expressions struct {
	Solving        string `yaml:"solving" mapstructure:"solving"`                 // 1 group: seconds
	RecursiveCalls string `yaml:"recursive_calls" mapstructure:"recursive_calls"` // 1 group: count
	Project        string `yaml:"project" mapstructure:"project"`                 // 1 group: seconds
	Reachable      string `yaml:"reachable" mapstructure:"reachable"`             // 1 group: seconds
	W1Marker       string `yaml:"w1_marker" mapstructure:"w1_marker"`             // no groups
	WinningSet     string `yaml:"winning_set" mapstructure:"winning_set"`         // 2 groups: partition, vertices
}

// DefaultExpressions returns the patterns matching merc-vpg's --timings and
// --debug output.
func DefaultExpressions() Expressions {
	return Expressions{
		Solving:        `.*Time solve_variability_zielonka: ([0-9.]+)s$`,
		RecursiveCalls: `.*Performed ([0-9]+) recursive calls.*`,
		Project:        `.*Time project: ([0-9.]+)s.*$`,
		Reachable:      `.*Time reachable: ([0-9.]+)s.*$`,
		W1Marker:       `^W1:`,
		WinningSet:     `.*[Ww]inning vertices for partition ([01]+)\s*:\s*\{?([0-9,\s]*)\}?\s*$`,
	}
}

// Patterns is the compiled pattern table a Parser matches against.
type Patterns struct {
	Solving        *regexp.Regexp
	RecursiveCalls *regexp.Regexp
	Project        *regexp.Regexp
	Reachable      *regexp.Regexp
	W1Marker       *regexp.Regexp
	WinningSet     *regexp.Regexp
}

// DefaultPatterns returns the compiled default table.
func DefaultPatterns() Patterns {
	p, err := Compile(DefaultExpressions())
	if err != nil {
		panic(err)
	}
	return p
}

// Compile compiles e, substituting the default for every empty field.
func Compile(e Expressions) (Patterns, error) {
	def := DefaultExpressions()
	var p Patterns
	for _, f := range []struct {
		name   string
		expr   string
		def    string
		groups int
		dst    **regexp.Regexp
	}{
		{"solving", e.Solving, def.Solving, 1, &p.Solving},
		{"recursive_calls", e.RecursiveCalls, def.RecursiveCalls, 1, &p.RecursiveCalls},
		{"project", e.Project, def.Project, 1, &p.Project},
		{"reachable", e.Reachable, def.Reachable, 1, &p.Reachable},
		{"w1_marker", e.W1Marker, def.W1Marker, 0, &p.W1Marker},
		{"winning_set", e.WinningSet, def.WinningSet, 2, &p.WinningSet},
	} {
		expr := f.expr
		if expr == "" {
			expr = f.def
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return Patterns{}, fmt.Errorf("metrics: pattern %s: %w", f.name, err)
		}
		if re.NumSubexp() < f.groups {
			return Patterns{}, fmt.Errorf("metrics: pattern %s needs %d capture group(s), has %d", f.name, f.groups, re.NumSubexp())
		}
		*f.dst = re
	}
	return p, nil
}
