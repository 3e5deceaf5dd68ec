package dag

import "time"

// Node statuses.
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
	StatusAborted   = "aborted"
)

// Result holds the outcome of a graph execution.
type Result struct {
	NodeResults map[string]NodeResult
	// Order lists node names in execution order.
	Order    []string
	Duration time.Duration
}

// NodeResult holds the outcome of a single node execution.
type NodeResult struct {
	Name     string
	Status   string // "completed" | "skipped" | "failed" | "aborted"
	Duration time.Duration
	Output   any
	Error    error
}

// Count returns how many nodes ended with the given status.
func (r *Result) Count(status string) int {
	n := 0
	for _, nr := range r.NodeResults {
		if nr.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the node that stopped the run, if any.
func (r *Result) Failed() (NodeResult, bool) {
	for _, name := range r.Order {
		if nr := r.NodeResults[name]; nr.Status == StatusFailed {
			return nr, true
		}
	}
	return NodeResult{}, false
}
