package dag

import (
	"slices"
	"sync"
)

// State is shared by the nodes of one execution. The engine records every
// node that completed, so a filter can tell which upstream outputs were
// rebuilt during this execution.
type State struct {
	mu      sync.RWMutex
	rebuilt []string
}

// NewState creates a new empty State.
func NewState() *State {
	return &State{}
}

// Rebuilt reports whether any of the named nodes completed in this
// execution.
func (s *State) Rebuilt(names ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range names {
		if slices.Contains(s.rebuilt, name) {
			return true
		}
	}
	return false
}

// RebuiltNodes returns the completed nodes in completion order.
func (s *State) RebuiltNodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rebuilt)
}

func (s *State) markRebuilt(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuilt = append(s.rebuilt, name)
}
