// Package dag executes a graph of build stages in dependency order.
//
// Nodes run one at a time: levels in topological order and, within a level,
// in the order they were declared. A NodeFilter is consulted immediately
// before each node runs, so it observes the effects of every node before it.
// Nodes the filter rejects are marked "skipped". The first failing node stops
// the run and every node that has not run yet is marked "aborted".
package dag
