package experiment

import (
	"time"

	"github.com/kbukum/vpgbench/metrics"
)

// TrialCount is the number of solver runs folded into one record.
const TrialCount = 5

// TrialResult is one solver run: the scraped metrics plus where they came
// from and how long the process took.
type TrialResult struct {
	metrics.TrialResult
	Experiment string
	File       string
	Variant    Variant
	Trial      int
	WallTime   float64 // seconds
}

// Record is the persisted form of TrialCount trials of one
// (experiment, file, variant). All lists are index-aligned by trial; a nil
// entry marks a metric the solver never printed in that trial. Times are in
// seconds.
type Record struct {
	RunID          string                           `json:"run_id"`
	StartedAt      time.Time                        `json:"started_at"`
	Experiment     string                           `json:"experiment"`
	File           string                           `json:"file"`
	Variant        Variant                          `json:"solve_variant"`
	Times          []*float64                       `json:"times"`
	RecursiveCalls [][]int                          `json:"recursive_calls"`
	ProjectTimes   []*float64                       `json:"project_times"`
	ReachableTimes []*float64                       `json:"reachable_times"`
	Solutions      []map[string]metrics.WinningSets `json:"solutions"`
	WallTimes      []float64                        `json:"wall_times"`
}

func newRecord(runID, experiment, file string, v Variant, started time.Time) *Record {
	return &Record{
		RunID:          runID,
		StartedAt:      started,
		Experiment:     experiment,
		File:           file,
		Variant:        v,
		Times:          make([]*float64, 0, TrialCount),
		RecursiveCalls: make([][]int, 0, TrialCount),
		ProjectTimes:   make([]*float64, 0, TrialCount),
		ReachableTimes: make([]*float64, 0, TrialCount),
		Solutions:      make([]map[string]metrics.WinningSets, 0, TrialCount),
		WallTimes:      make([]float64, 0, TrialCount),
	}
}

func (r *Record) add(t TrialResult) {
	r.Times = append(r.Times, t.SolvingTime)
	r.RecursiveCalls = append(r.RecursiveCalls, t.RecursiveCalls)
	r.ProjectTimes = append(r.ProjectTimes, t.ProjectTime)
	r.ReachableTimes = append(r.ReachableTimes, t.ReachableTime)
	r.Solutions = append(r.Solutions, t.Solution)
	r.WallTimes = append(r.WallTimes, t.WallTime)
}

// Trials returns the number of trials folded into r.
func (r *Record) Trials() int {
	return len(r.Times)
}
