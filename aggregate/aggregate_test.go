package aggregate

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/kbukum/vpgbench/experiment"
	"github.com/kbukum/vpgbench/metrics"
	"github.com/kbukum/vpgbench/store"
	"github.com/kbukum/vpgbench/util"
)

func floats(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		out[i] = util.Ptr(vs[i])
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []*float64
		mean     float64
		observed int
	}{
		{"one to five", floats(1, 2, 3, 4, 5), 3, 5},
		{"nulls ignored", []*float64{util.Ptr(2.0), nil, util.Ptr(4.0), nil, nil}, 3, 2},
		{"nothing observed", []*float64{nil, nil}, 0, 0},
		{"empty", nil, 0, 0},
		{"observed zero", floats(0, 0), 0, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mean, n := Mean(tc.values)
			if !approx(mean, tc.mean) || n != tc.observed {
				t.Errorf("expected (%v, %d), got (%v, %d)", tc.mean, tc.observed, mean, n)
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	tests := []struct {
		solve, project, reachable, want float64
	}{
		{1.0, 0.5, 0.49, 0.01},
		{1.0, 0.6, 0.5, 0},
		{1.0, 1.0, 0, 0},
		{0, 0, 0, 0},
	}
	for _, tc := range tests {
		if got := Breakdown(tc.solve, tc.project, tc.reachable); !approx(got, tc.want) {
			t.Errorf("Breakdown(%v, %v, %v) = %v, want %v", tc.solve, tc.project, tc.reachable, got, tc.want)
		}
	}
}

func TestStatsCalls(t *testing.T) {
	rec := experiment.Record{
		Variant:        experiment.VariantProduct,
		Times:          floats(1, 1, 1),
		RecursiveCalls: [][]int{{3, 7}, nil, {5, 1, 2}},
		ProjectTimes:   []*float64{util.Ptr(0.5), nil, util.Ptr(0.7)},
		ReachableTimes: floats(0.2, 0.2, 0.2),
		WallTimes:      []float64{1, 2, 3},
	}
	s := Stats(rec)
	if s.MaxCalls != 7 || s.TotalCalls != 18 || s.Calls != 5 {
		t.Errorf("unexpected calls max=%d total=%d n=%d", s.MaxCalls, s.TotalCalls, s.Calls)
	}
	if !approx(s.ProjectTime, 0.6) || s.ProjectObserved != 2 {
		t.Errorf("unexpected project mean %v (%d)", s.ProjectTime, s.ProjectObserved)
	}
	if !approx(s.Breakdown(), 0.2) {
		t.Errorf("unexpected breakdown %v", s.Breakdown())
	}
	if !approx(s.WallTime, 2) {
		t.Errorf("unexpected wall time %v", s.WallTime)
	}
	if s.Trials != 3 {
		t.Errorf("expected 3 trials, got %d", s.Trials)
	}
}

func TestStatsWinningSets(t *testing.T) {
	rec := experiment.Record{
		Variant: experiment.VariantFamily,
		Times:   floats(1, 1),
		Solutions: []map[string]metrics.WinningSets{
			nil,
			{
				"01": {Player0: []int{0, 1}, Player1: []int{2}},
				"10": {Player0: []int{0}, Player1: []int{1, 2, 3}},
			},
		},
	}
	s := Stats(rec)
	if !s.HasSolution || s.Player0Size != 3 || s.Player1Size != 4 {
		t.Errorf("unexpected sizes %+v", s)
	}

	if s := Stats(experiment.Record{Times: floats(1)}); s.HasSolution {
		t.Error("expected no solution")
	}
}

func record(exp, file string, v experiment.Variant, times ...float64) experiment.Record {
	return experiment.Record{Experiment: exp, File: file, Variant: v, Times: floats(times...)}
}

func TestFromRecordsGrouping(t *testing.T) {
	recs := []experiment.Record{
		record("elevator.mcrl2", "a/tmp/elevator_p1.svpg", experiment.VariantFamily, 1),
		record("minepump.mcrl2", "b/tmp/minepump_p1.svpg", experiment.VariantFamily, 2),
		record("elevator.mcrl2", "a/tmp/elevator_p1.svpg", experiment.VariantProduct, 3),
		record("elevator.mcrl2", "a/tmp/elevator_p2.svpg", experiment.VariantFamily, 4),
		record("elevator.mcrl2", "a/tmp/elevator_p1.svpg", experiment.VariantFamily, 5),
	}
	rows := FromRecords(recs)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	want := []struct{ exp, prop string }{
		{"elevator.mcrl2", "elevator_p1.svpg"},
		{"elevator.mcrl2", "elevator_p2.svpg"},
		{"minepump.mcrl2", "minepump_p1.svpg"},
	}
	for i, w := range want {
		if rows[i].Experiment != w.exp || rows[i].Property != w.prop {
			t.Errorf("row %d: expected %s/%s, got %s/%s", i, w.exp, w.prop, rows[i].Experiment, rows[i].Property)
		}
	}

	if got := rows[0].Variant(experiment.VariantFamily).SolveTime; got != 5 {
		t.Errorf("latest record should win, got %v", got)
	}
	if rows[0].Variant(experiment.VariantProduct) == nil {
		t.Error("expected product stats on first row")
	}
	if rows[1].Variant(experiment.VariantProduct) != nil {
		t.Error("expected missing product stats on second row")
	}
}

func TestAggregateFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	s := store.Open(path)
	for _, rec := range []experiment.Record{
		record("elevator.mcrl2", "tmp/elevator_p1.svpg", experiment.VariantFamily, 1, 2, 3, 4, 5),
		record("elevator.mcrl2", "tmp/elevator_p1.svpg", experiment.VariantFamilyOptimisedLeft, 2),
	} {
		if err := s.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := Aggregate(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0].Variants) != 2 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	fam := rows[0].Variant(experiment.VariantFamily)
	if !approx(fam.SolveTime, 3) || fam.SolveObserved != 5 {
		t.Errorf("unexpected family mean %v (%d)", fam.SolveTime, fam.SolveObserved)
	}
}

func TestAggregateMissingFile(t *testing.T) {
	if _, err := Aggregate(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatal("expected error")
	}
}
