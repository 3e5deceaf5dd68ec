package aggregate

import (
	"path/filepath"

	"github.com/kbukum/vpgbench/experiment"
	"github.com/kbukum/vpgbench/store"
)

// Row is one line of the report: a property of an experiment and the
// statistics of every variant that was run on it.
type Row struct {
	Experiment string
	Property   string // game file basename
	Variants   map[experiment.Variant]*VariantStats
}

// Variant returns the statistics of v, or nil when v was not run.
func (r *Row) Variant(v experiment.Variant) *VariantStats {
	return r.Variants[v]
}

// Aggregate reads the records stored at path and reduces them.
func Aggregate(path string) ([]Row, error) {
	recs, err := store.ReadAll[experiment.Record](store.Open(path))
	if err != nil {
		return nil, err
	}
	return FromRecords(recs), nil
}

// FromRecords groups records by experiment and property in order of first
// appearance. When a variant was recorded more than once for the same
// property the latest record wins.
func FromRecords(recs []experiment.Record) []Row {
	type key struct{ experiment, property string }

	var rows []Row
	index := make(map[key]int)
	for _, rec := range recs {
		k := key{rec.Experiment, filepath.Base(rec.File)}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, Row{
				Experiment: k.experiment,
				Property:   k.property,
				Variants:   make(map[experiment.Variant]*VariantStats),
			})
		}
		rows[i].Variants[rec.Variant] = Stats(rec)
	}
	return groupByExperiment(rows)
}

// groupByExperiment makes the rows of an experiment contiguous while keeping
// first-appearance order among experiments and among their properties.
func groupByExperiment(rows []Row) []Row {
	var order []string
	byExp := make(map[string][]Row)
	for _, r := range rows {
		if _, ok := byExp[r.Experiment]; !ok {
			order = append(order, r.Experiment)
		}
		byExp[r.Experiment] = append(byExp[r.Experiment], r)
	}
	out := make([]Row, 0, len(rows))
	for _, e := range order {
		out = append(out, byExp[e]...)
	}
	return out
}
