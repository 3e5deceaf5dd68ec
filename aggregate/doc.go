// Package aggregate reduces stored experiment records to one row per
// (experiment, property) with per-variant statistics.
//
// All values stay in seconds; converting to a presentation unit is left to
// the report package.
package aggregate
