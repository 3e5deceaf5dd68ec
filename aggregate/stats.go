package aggregate

import (
	"github.com/kbukum/vpgbench/experiment"
	"github.com/kbukum/vpgbench/metrics"
	"github.com/kbukum/vpgbench/util"
)

// VariantStats summarises the trials of one variant.
type VariantStats struct {
	Variant experiment.Variant
	Trials  int

	// Mean timings in seconds over the trials where the metric was printed.
	// The matching Observed count is zero when it never was; the mean is
	// then zero as well.
	SolveTime         float64
	SolveObserved     int
	ProjectTime       float64
	ProjectObserved   int
	ReachableTime     float64
	ReachableObserved int
	WallTime          float64

	// Recursive call counts flattened over all trials and sub-problems.
	MaxCalls   int
	TotalCalls int
	Calls      int // number of counts seen

	// Winning-set sizes summed over all partitions of the first trial that
	// printed a solution.
	HasSolution bool
	Player0Size int
	Player1Size int
}

// Breakdown returns the product solving time left after projection and
// reachability, never negative.
func (s *VariantStats) Breakdown() float64 {
	return Breakdown(s.SolveTime, s.ProjectTime, s.ReachableTime)
}

// Breakdown returns max(0, solve - project - reachable).
func Breakdown(solve, project, reachable float64) float64 {
	if d := solve - project - reachable; d > 0 {
		return d
	}
	return 0
}

// Mean returns the arithmetic mean of the non-nil values and how many there
// were. With no observed value the mean is 0.
func Mean(values []*float64) (float64, int) {
	observed := util.Present(values)
	return util.Mean(observed), len(observed)
}

// Stats computes the statistics of one record.
func Stats(rec experiment.Record) *VariantStats {
	s := &VariantStats{Variant: rec.Variant, Trials: rec.Trials()}
	s.SolveTime, s.SolveObserved = Mean(rec.Times)
	s.ProjectTime, s.ProjectObserved = Mean(rec.ProjectTimes)
	s.ReachableTime, s.ReachableObserved = Mean(rec.ReachableTimes)

	s.WallTime = util.Mean(rec.WallTimes)

	calls := util.Flatten(rec.RecursiveCalls)
	s.MaxCalls, _ = util.Max(calls)
	s.TotalCalls = util.Sum(calls)
	s.Calls = len(calls)

	for _, sol := range rec.Solutions {
		if sol == nil {
			continue
		}
		s.HasSolution = true
		s.Player0Size, s.Player1Size = solutionSizes(sol)
		break
	}
	return s
}

func solutionSizes(sol map[string]metrics.WinningSets) (int, int) {
	var p0, p1 int
	for _, sets := range sol {
		a, b := sets.Sizes()
		p0 += a
		p1 += b
	}
	return p0, p1
}
