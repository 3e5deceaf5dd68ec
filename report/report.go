package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kbukum/vpgbench/aggregate"
	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/experiment"
)

// Presentation units.
const (
	UnitSeconds      = "s"
	UnitMilliseconds = "ms"
)

// Missing marks a variant that was not run or a value that was never
// observed.
const Missing = "--"

// Options control number formatting and the optional columns.
type Options struct {
	Unit      string `yaml:"unit" mapstructure:"unit" validate:"omitempty,oneof=s ms"`
	Precision int    `yaml:"precision" mapstructure:"precision" validate:"gte=0,lte=9"`
	// Solutions appends the winning-set sizes of the family variant.
	Solutions bool `yaml:"solutions" mapstructure:"solutions"`
}

// DefaultOptions renders seconds with one decimal.
func DefaultOptions() Options {
	return Options{Unit: UnitSeconds, Precision: 1}
}

func (o Options) scale() (float64, error) {
	switch o.Unit {
	case "", UnitSeconds:
		return 1, nil
	case UnitMilliseconds:
		return 1000, nil
	}
	return 0, errors.InvalidInput("unit", "must be one of: s ms").WithDetail("value", o.Unit)
}

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes s safe to place in a LaTeX table cell.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Render writes rows as a complete table environment.
func Render(w io.Writer, rows []aggregate.Row, opts Options) error {
	var b strings.Builder
	b.WriteString("\\begin{table}[h]\n")
	if err := tabular(&b, rows, opts); err != nil {
		return err
	}
	b.WriteString("\\end{table}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTable writes only the tabular environment of rows.
func RenderTable(w io.Writer, rows []aggregate.Row, opts Options) error {
	var b strings.Builder
	if err := tabular(&b, rows, opts); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func tabular(b *strings.Builder, rows []aggregate.Row, opts Options) error {
	scale, err := opts.scale()
	if err != nil {
		return err
	}
	unit := opts.Unit
	if unit == "" {
		unit = UnitSeconds
	}
	f := formatter{scale: scale, precision: opts.Precision}

	columns, header := "l|l|rr|rr|rrrrrr", fmt.Sprintf("model & property & family (%[1]s) & max "+
		"& family-left-optimised (%[1]s) & max & product (%[1]s) & max & total "+
		"& project (%[1]s) & reachable (%[1]s) & breakdown (%[1]s)", unit)
	if opts.Solutions {
		columns += "|rr"
		header += " & $|W_0|$ & $|W_1|$"
	}
	fmt.Fprintf(b, "\\begin{tabular}{%s}\n", columns)
	b.WriteString(header + " \\\\ \\hline\n")

	prev := ""
	for i, row := range rows {
		label := ""
		if i == 0 || row.Experiment != prev {
			label = Escape(row.Experiment)
		}
		prev = row.Experiment

		cells := []string{label, Escape(row.Property)}
		cells = append(cells, f.family(row.Variant(experiment.VariantFamily))...)
		cells = append(cells, f.family(row.Variant(experiment.VariantFamilyOptimisedLeft))...)
		cells = append(cells, f.product(row.Variant(experiment.VariantProduct))...)
		if opts.Solutions {
			cells = append(cells, solution(row.Variant(experiment.VariantFamily))...)
		}
		b.WriteString(strings.Join(cells, " & "))
		b.WriteString(" \\\\\n")
	}
	b.WriteString("\\end{tabular}\n")
	return nil
}

type formatter struct {
	scale     float64
	precision int
}

func (f formatter) time(v float64, observed int) string {
	if observed == 0 {
		return Missing
	}
	return strconv.FormatFloat(v*f.scale, 'f', f.precision, 64)
}

func (f formatter) calls(v int, s *aggregate.VariantStats) string {
	if s.Calls == 0 {
		return Missing
	}
	return strconv.Itoa(v)
}

func (f formatter) family(s *aggregate.VariantStats) []string {
	if s == nil {
		return []string{Missing, Missing}
	}
	return []string{f.time(s.SolveTime, s.SolveObserved), f.calls(s.MaxCalls, s)}
}

func (f formatter) product(s *aggregate.VariantStats) []string {
	if s == nil {
		return []string{Missing, Missing, Missing, Missing, Missing, Missing}
	}
	return []string{
		f.time(s.SolveTime, s.SolveObserved),
		f.calls(s.MaxCalls, s),
		f.calls(s.TotalCalls, s),
		f.time(s.ProjectTime, s.ProjectObserved),
		f.time(s.ReachableTime, s.ReachableObserved),
		f.time(s.Breakdown(), s.SolveObserved),
	}
}

func solution(s *aggregate.VariantStats) []string {
	if s == nil || !s.HasSolution {
		return []string{Missing, Missing}
	}
	return []string{strconv.Itoa(s.Player0Size), strconv.Itoa(s.Player1Size)}
}
