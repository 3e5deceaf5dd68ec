package dag

import "fmt"

// Graph declares nodes and edges (dependency relationships). The order of
// Nodes is the tie-breaker for nodes at the same level.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Edge represents a dependency: To depends on From.
type Edge struct {
	From string
	To   string
}

// Add appends a node and returns the graph for chaining.
func (g *Graph) Add(node Node) *Graph {
	g.Nodes = append(g.Nodes, node)
	return g
}

// Connect declares that to depends on from.
func (g *Graph) Connect(from, to string) *Graph {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
	return g
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Name() == name {
			return n, true
		}
	}
	return nil, false
}

// BuildLevels uses Kahn's algorithm to group nodes by dependency level.
// Each level lists its nodes in declaration order.
// Returns an error on duplicate names, unknown edge endpoints or a cycle.
func BuildLevels(g *Graph) ([][]string, error) {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := index[n.Name()]; dup {
			return nil, fmt.Errorf("dag: duplicate node %q", n.Name())
		}
		index[n.Name()] = i
	}

	inDegree := make([]int, len(g.Nodes))
	dependents := make([][]int, len(g.Nodes))
	for _, e := range g.Edges {
		from, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("dag: edge references unknown node %q", e.From)
		}
		to, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("dag: edge references unknown node %q", e.To)
		}
		inDegree[to]++
		dependents[from] = append(dependents[from], to)
	}

	var queue []int
	for i, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, i)
		}
	}

	var levels [][]string
	visited := 0

	for len(queue) > 0 {
		level := make([]string, len(queue))
		for i, idx := range queue {
			level[i] = g.Nodes[idx].Name()
		}
		levels = append(levels, level)
		visited += len(queue)

		ready := make([]bool, len(g.Nodes))
		for _, idx := range queue {
			for _, dep := range dependents[idx] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					ready[dep] = true
				}
			}
		}
		var next []int
		for i, ok := range ready {
			if ok {
				next = append(next, i)
			}
		}
		queue = next
	}

	if visited != len(g.Nodes) {
		return nil, fmt.Errorf("dag: cycle detected, processed %d of %d nodes", visited, len(g.Nodes))
	}

	return levels, nil
}

// Order flattens BuildLevels into the sequence the engine runs nodes in.
func Order(g *Graph) ([]string, error) {
	levels, err := BuildLevels(g)
	if err != nil {
		return nil, err
	}
	var order []string
	for _, level := range levels {
		order = append(order, level...)
	}
	return order, nil
}
