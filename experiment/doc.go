// Package experiment runs the solver over prepared games and records the
// measurements.
//
// Every (experiment, game, variant) combination is solved TrialCount times in
// a row. Each trial streams the solver's output through a fresh
// metrics.Parser; the trials are folded into one Record whose lists are
// index-aligned by trial. A record is appended to the store only after all of
// its trials succeeded.
package experiment
