// Package metrics scrapes solver measurements out of console output.
//
// A Parser consumes one line at a time while the solver runs and accumulates
// a TrialResult. Each line updates at most one field: patterns are tried in
// a fixed priority order and the first match wins. Lines that match nothing
// are ignored, so a metric the solver never printed stays nil.
package metrics
