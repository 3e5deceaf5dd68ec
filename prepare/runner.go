package prepare

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/kbukum/vpgbench/dag"
	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/observability"
	"github.com/kbukum/vpgbench/process"
	"github.com/kbukum/vpgbench/staleness"
)

// Runner prepares cases.
type Runner struct {
	Exec    process.Executor
	Tools   Tools
	Tracker *staleness.Tracker
	Metrics *observability.Metrics
	Log     *logger.Logger
}

// Prepare brings every artifact of c up to date. Stages whose output is
// fresh are skipped; the first failing stage aborts the rest of the case.
func (r *Runner) Prepare(ctx context.Context, c Case) (*dag.Result, error) {
	log := r.log().WithFields(logger.Fields(logger.FieldCase, c.Name))
	log.Info("starting preparation", logger.Fields("dir", c.Dir))

	if err := os.MkdirAll(c.WorkDir(), 0o755); err != nil {
		return nil, errors.Internal(fmt.Errorf("prepare: create work dir: %w", err))
	}

	stages := r.Stages(c)
	g := &dag.Graph{}
	byName := make(map[string]Stage, len(stages))
	upstream := make(map[string]string, len(stages))
	for i, st := range stages {
		byName[st.Name] = st
		g.Add(r.node(c, st))
		switch {
		case i == 0:
		case st.Name == StageCompile, st.Name == StageGenerate, st.Name == StageRelabel:
			upstream[st.Name] = stages[i-1].Name
		default:
			upstream[st.Name] = StageRelabel
		}
		if up, ok := upstream[st.Name]; ok {
			g.Connect(up, st.Name)
		}
	}

	// A stage whose input was rebuilt in this run is stale even when the
	// file system timestamps tie.
	tracker := r.tracker()
	engine := &dag.Engine{Filter: func(name string, state *dag.State) bool {
		st := byName[name]
		if state.Rebuilt(upstream[name]) || tracker.Stale(st.Output, st.Inputs...) {
			return true
		}
		return st.Stale != nil && st.Stale()
	}}

	result, err := engine.Execute(ctx, g, dag.NewState())
	if result != nil {
		for _, name := range result.Order {
			nr := result.NodeResults[name]
			switch nr.Status {
			case dag.StatusSkipped:
				log.Debug("up to date", logger.Fields(logger.FieldStage, name))
				r.Metrics.RecordStage(ctx, c.Name, name, nr.Status, 0)
			case dag.StatusAborted:
				r.Metrics.RecordStage(ctx, c.Name, name, nr.Status, 0)
			}
		}
	}
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			r.Metrics.RecordProcessFailure(ctx, binaryOf(appErr), string(appErr.Code))
		}
		return result, fmt.Errorf("case %s: %w", c.Name, err)
	}

	log.Info("preparation finished", logger.Fields(
		"rebuilt", result.Count(dag.StatusCompleted),
		"skipped", result.Count(dag.StatusSkipped),
		logger.FieldDuration, result.Duration.Milliseconds(),
	))
	return result, nil
}

// PrepareAll prepares cases in order. A failing case is logged and the next
// case still runs; cancellation stops the loop. The returned error joins the
// failures of all cases.
func (r *Runner) PrepareAll(ctx context.Context, cases []Case) error {
	var errs []error
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.Interrupted("prepare").WithCause(err))
			break
		}
		if _, err := r.Prepare(ctx, c); err != nil {
			r.log().Error("preparation failed", logger.Fields(
				logger.FieldCase, c.Name,
				logger.FieldError, err.Error(),
			))
			errs = append(errs, err)
			if errors.IsCode(err, errors.ErrCodeInterrupted) {
				break
			}
		}
	}
	return stderrors.Join(errs...)
}

func (r *Runner) node(c Case, st Stage) dag.Node {
	action := st.Action
	var n dag.Node = dag.Func(st.Name, func(ctx context.Context, _ *dag.State) (any, error) {
		return st.Output, action(ctx)
	})
	n = dag.WithLogging(n, r.log().WithFields(logger.Fields(logger.FieldCase, c.Name)))
	n = dag.WithMetrics(n, r.Metrics, c.Name)
	return dag.WithTracing(n, observability.SpanStage, map[string]string{
		observability.AttrCase: c.Name,
	})
}

func (r *Runner) tracker() *staleness.Tracker {
	if r.Tracker != nil {
		return r.Tracker
	}
	return staleness.New(false)
}

func (r *Runner) log() *logger.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logger.Get("prepare")
}

func binaryOf(e *errors.AppError) string {
	if b, ok := e.Details["binary"].(string); ok {
		return b
	}
	return "vpgbench"
}
