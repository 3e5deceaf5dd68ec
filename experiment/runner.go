package experiment

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/metrics"
	"github.com/kbukum/vpgbench/observability"
	"github.com/kbukum/vpgbench/prepare"
	"github.com/kbukum/vpgbench/process"
	"github.com/kbukum/vpgbench/store"
)

// DefaultNodeCapacity is the BDD node table size passed to the solver.
const DefaultNodeCapacity = 1000000

// Runner solves games and records the measurements.
type Runner struct {
	Exec         process.Executor
	Merc         string // merc-vpg
	NodeCapacity int
	Patterns     *metrics.Patterns
	Store        store.Appender
	Variants     []Variant
	// RunID tags every record of this invocation. A fresh id is generated
	// when empty.
	RunID   string
	Metrics *observability.Metrics
	Log     *logger.Logger
}

// Run solves file with variant v TrialCount times and appends the resulting
// record to the store. A failing trial aborts the record: nothing is
// appended and the error is returned.
func (r *Runner) Run(ctx context.Context, experiment, file string, v Variant) (*Record, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRecord)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCase, experiment)
	observability.SetSpanAttribute(ctx, observability.AttrFile, file)
	observability.SetSpanAttribute(ctx, observability.AttrVariant, v.String())

	log := r.log().WithFields(logger.Fields(
		logger.FieldCase, experiment,
		logger.FieldFile, file,
		logger.FieldVariant, v.String(),
	))

	rec := newRecord(r.runID(), experiment, file, v, time.Now().UTC())
	for i := 1; i <= TrialCount; i++ {
		if err := ctx.Err(); err != nil {
			err = errors.Interrupted("run").WithCause(err)
			observability.SetSpanError(ctx, err)
			return nil, err
		}
		log.Info(fmt.Sprintf("Run %d/%d: solving %s with variant %s", i, TrialCount, file, v))

		t, err := r.trial(ctx, experiment, file, v, i)
		if err != nil {
			observability.SetSpanError(ctx, err)
			return nil, fmt.Errorf("%s with variant %s, trial %d: %w", file, v, i, err)
		}
		rec.add(t)
	}

	if r.Store != nil {
		if err := r.Store.Append(rec); err != nil {
			observability.SetSpanError(ctx, err)
			return nil, err
		}
	}
	log.Info("record stored", logger.Fields("trials", rec.Trials()))
	return rec, nil
}

func (r *Runner) trial(ctx context.Context, experiment, file string, v Variant, n int) (TrialResult, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTrial)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrTrial, n)

	parser := metrics.NewParser(r.patterns())
	cmd := process.Command{
		Binary: r.Merc,
		Args:   r.solveArgs(file, v),
		Log:    r.log().WithFields(logger.Fields(logger.FieldVariant, v.String(), logger.FieldTrial, n)),
	}

	start := time.Now()
	res, err := r.Exec.Stream(ctx, cmd, parser.Consume)
	elapsed := time.Since(start)
	if res != nil {
		elapsed = res.Duration
		observability.SetSpanAttribute(ctx, observability.AttrExitCode, res.ExitCode)
	}
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, elapsed.Milliseconds())

	if err != nil {
		observability.SetSpanError(ctx, err)
		r.Metrics.RecordTrial(ctx, v.String(), "failed", elapsed)
		if appErr, ok := errors.AsAppError(err); ok {
			r.Metrics.RecordProcessFailure(ctx, r.Merc, string(appErr.Code))
		}
		return TrialResult{}, err
	}
	r.Metrics.RecordTrial(ctx, v.String(), "completed", elapsed)

	return TrialResult{
		TrialResult: parser.Result(),
		Experiment:  experiment,
		File:        file,
		Variant:     v,
		Trial:       n,
		WallTime:    elapsed.Seconds(),
	}, nil
}

// RunAll runs every configured variant on every game of every case. A failed
// record is logged and the next one still runs; cancellation stops the loop.
// The returned error joins all failures.
func (r *Runner) RunAll(ctx context.Context, cases []prepare.Case) error {
	return r.eachGame(ctx, "run", cases, r.variants(), func(ctx context.Context, c prepare.Case, game string, v Variant) error {
		_, err := r.Run(ctx, c.Name, game, v)
		return err
	})
}

// Verify runs the family variants on every game with solution verification
// enabled. It produces no records.
func (r *Runner) Verify(ctx context.Context, cases []prepare.Case) error {
	var variants []Variant
	for _, v := range r.variants() {
		if v.IsFamily() {
			variants = append(variants, v)
		}
	}
	return r.eachGame(ctx, "verify", cases, variants, r.verify)
}

func (r *Runner) verify(ctx context.Context, c prepare.Case, game string, v Variant) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanVerify)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCase, c.Name)
	observability.SetSpanAttribute(ctx, observability.AttrFile, game)
	observability.SetSpanAttribute(ctx, observability.AttrVariant, v.String())

	log := r.log().WithFields(logger.Fields(logger.FieldCase, c.Name, logger.FieldVariant, v.String()))
	log.Info(fmt.Sprintf("Verifying %s with variant %s", game, v))

	res, err := r.Exec.Stream(ctx, process.Command{
		Binary: r.Merc,
		Args:   r.verifyArgs(game, v),
		Log:    log,
	}, nil)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if appErr, ok := errors.AsAppError(err); ok {
			r.Metrics.RecordProcessFailure(ctx, r.Merc, string(appErr.Code))
		}
		return fmt.Errorf("verify %s with variant %s: %w", game, v, err)
	}
	log.Info("solution verified", logger.DurationFields("verify", res.Duration))
	return nil
}

type gameFunc func(ctx context.Context, c prepare.Case, game string, v Variant) error

func (r *Runner) eachGame(ctx context.Context, op string, cases []prepare.Case, variants []Variant, fn gameFunc) error {
	var errs []error
	for _, c := range cases {
		games, err := DiscoverGames(c.WorkDir())
		if err != nil {
			r.log().Error("no games to "+op, logger.Fields(logger.FieldCase, c.Name, logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("case %s: %w", c.Name, err))
			continue
		}
		if len(games) == 0 {
			r.log().Warn("no games found, run prepare first", logger.Fields(logger.FieldCase, c.Name, "dir", c.WorkDir()))
		}
		for _, game := range games {
			for _, v := range variants {
				if err := ctx.Err(); err != nil {
					errs = append(errs, errors.Interrupted(op).WithCause(err))
					return stderrors.Join(errs...)
				}
				if err := fn(ctx, c, game, v); err != nil {
					r.log().Error(op+" failed", logger.Fields(
						logger.FieldCase, c.Name,
						logger.FieldFile, game,
						logger.FieldVariant, v.String(),
						logger.FieldError, err.Error(),
					))
					errs = append(errs, err)
					if errors.IsCode(err, errors.ErrCodeInterrupted) {
						return stderrors.Join(errs...)
					}
				}
			}
		}
	}
	return stderrors.Join(errs...)
}

func (r *Runner) solveArgs(file string, v Variant) []string {
	return []string{
		"solve",
		"--oxidd-node-capacity=" + strconv.Itoa(r.nodeCapacity()),
		"--debug",
		"--timings",
		"--solve-variant=" + v.String(),
		file,
	}
}

func (r *Runner) verifyArgs(file string, v Variant) []string {
	return []string{
		"solve",
		"--oxidd-node-capacity=" + strconv.Itoa(r.nodeCapacity()),
		"--solve-variant=" + v.String(),
		"--verify-solution",
		file,
	}
}

func (r *Runner) nodeCapacity() int {
	if r.NodeCapacity > 0 {
		return r.NodeCapacity
	}
	return DefaultNodeCapacity
}

func (r *Runner) patterns() metrics.Patterns {
	if r.Patterns != nil {
		return *r.Patterns
	}
	return metrics.DefaultPatterns()
}

func (r *Runner) variants() []Variant {
	if len(r.Variants) > 0 {
		return r.Variants
	}
	return Variants()
}

func (r *Runner) runID() string {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	return r.RunID
}

func (r *Runner) log() *logger.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logger.Get("experiment")
}
