package dag

import (
	"context"
	"time"

	"github.com/kbukum/vpgbench/errors"
)

// NodeFilter returns true if a node should execute. It is called right before
// the node would run.
type NodeFilter func(nodeName string, state *State) bool

// Engine executes a graph in dependency order.
type Engine struct {
	// Filter decides per node whether it runs. Nil runs every node.
	Filter NodeFilter
}

// Execute runs the graph sequentially. On the first node failure the
// remaining nodes are marked aborted and the node's error is returned along
// with the partial result. Context cancellation between nodes is reported as
// an INTERRUPTED error.
func (e *Engine) Execute(ctx context.Context, g *Graph, state *State) (*Result, error) {
	start := time.Now()

	order, err := Order(g)
	if err != nil {
		return nil, errors.Internal(err)
	}

	result := &Result{
		NodeResults: make(map[string]NodeResult, len(order)),
		Order:       order,
	}
	defer func() { result.Duration = time.Since(start) }()

	for i, name := range order {
		if ctxErr := ctx.Err(); ctxErr != nil {
			abort(result, order[i:])
			return result, errors.Interrupted("dag").WithCause(ctxErr)
		}

		if e.Filter != nil && !e.Filter(name, state) {
			result.NodeResults[name] = NodeResult{Name: name, Status: StatusSkipped}
			continue
		}

		node, _ := g.Node(name)
		nr := executeNode(ctx, node, state)
		result.NodeResults[name] = nr
		if nr.Status == StatusCompleted {
			state.markRebuilt(name)
		}
		if nr.Status == StatusFailed {
			abort(result, order[i+1:])
			return result, nr.Error
		}
	}

	return result, nil
}

func executeNode(ctx context.Context, node Node, state *State) NodeResult {
	start := time.Now()
	output, err := node.Run(ctx, state)
	duration := time.Since(start)

	if err != nil {
		return NodeResult{
			Name:     node.Name(),
			Status:   StatusFailed,
			Duration: duration,
			Error:    err,
		}
	}

	return NodeResult{
		Name:     node.Name(),
		Status:   StatusCompleted,
		Duration: duration,
		Output:   output,
	}
}

func abort(result *Result, names []string) {
	for _, name := range names {
		result.NodeResults[name] = NodeResult{Name: name, Status: StatusAborted}
	}
}
