package metrics

// WinningSets holds the vertices won by each player for one partition.
type WinningSets struct {
	Player0 []int `json:"player0"`
	Player1 []int `json:"player1"`
}

// TrialResult is everything scraped from one solver run. Nil pointers and a
// nil Solution mean the solver never printed that metric.
type TrialResult struct {
	SolvingTime    *float64               `json:"solving_time"`
	RecursiveCalls []int                  `json:"recursive_calls"`
	ProjectTime    *float64               `json:"project_time"`
	ReachableTime  *float64               `json:"reachable_time"`
	Solution       map[string]WinningSets `json:"solution,omitempty"`
}

// Sizes returns the number of vertices won by player 0 and by player 1 in
// this partition.
func (s WinningSets) Sizes() (int, int) {
	return len(s.Player0), len(s.Player1)
}
