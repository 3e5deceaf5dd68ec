package prepare

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/process"
)

// Stage names.
const (
	StageCompile  = "compile"
	StageGenerate = "generate"
	StageRelabel  = "relabel"
	stageGame     = "game:"
)

// GameStage is the stage name building the game for property p.
func GameStage(property string) string {
	return stageGame + gameName(property)
}

// Stage is one step of a case pipeline: an output derived from inputs by an
// action. Stale, when set, reports staleness the timestamps cannot see.
type Stage struct {
	Name   string
	Inputs []string
	Output string
	Action func(ctx context.Context) error
	Stale  func() bool
}

// Tools are the resolved external binaries.
type Tools struct {
	Compiler  string // mcrl22lps
	Generator string // lps2lts
	Merc      string // merc-vpg
}

// Stages returns the pipeline of c in execution order.
func (r *Runner) Stages(c Case) []Stage {
	spec, lps, aut, renamed := c.SpecPath(), c.LPSPath(), c.AUTPath(), c.RenamedPath()

	relabelInputs := []string{aut}
	rulesPath := c.RenamePath()
	if exists(rulesPath) {
		relabelInputs = []string{rulesPath, aut}
	}

	stages := []Stage{
		{
			Name:   StageCompile,
			Inputs: []string{spec},
			Output: lps,
			Action: r.command(c, StageCompile, r.Tools.Compiler, "--verbose", spec, lps),
		},
		{
			Name:   StageGenerate,
			Inputs: []string{lps},
			Output: aut,
			Action: r.command(c, StageGenerate, r.Tools.Generator, "--verbose", lps, aut),
		},
		{
			Name:   StageRelabel,
			Inputs: relabelInputs,
			Output: renamed,
			Action: func(context.Context) error { return r.relabel(c, rulesPath, aut, renamed) },
			Stale:  func() bool { return rulesChanged(rulesPath, c.RulesStampPath()) },
		},
	}

	fd := c.FeatureDiagramPath()
	for _, p := range c.Properties {
		mcf, game := c.PropertyPath(p), c.GamePath(p)
		name := GameStage(p)
		stages = append(stages, Stage{
			Name:   name,
			Inputs: []string{fd, renamed, mcf},
			Output: game,
			Action: r.command(c, name, r.Tools.Merc, "translate", fd, renamed, mcf, game),
		})
	}
	return stages
}

func (r *Runner) command(c Case, stage, binary string, args ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := r.log().WithFields(logger.Fields(logger.FieldCase, c.Name, logger.FieldStage, stage))
		_, err := r.Exec.Stream(ctx, process.Command{
			Binary: binary,
			Args:   args,
			Log:    log,
		}, nil)
		return err
	}
}

func (r *Runner) relabel(c Case, rulesPath, aut, renamed string) error {
	raw, err := readRules(rulesPath)
	if err != nil {
		return err
	}
	rules, err := ParseRules(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	r.log().Debug("relabelling state space", logger.Fields(logger.FieldCase, c.Name, "rules", len(rules)))
	if err := RelabelFile(aut, renamed, rules); err != nil {
		return err
	}
	if err := os.WriteFile(c.RulesStampPath(), raw, 0o644); err != nil {
		return errors.Internal(fmt.Errorf("prepare: write rules stamp: %w", err))
	}
	return nil
}

// readRules returns the content of the rule file; a missing file has no rules.
func readRules(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prepare: read rules: %w", err)
	}
	return raw, nil
}

// rulesChanged reports whether the rule file differs from the rules recorded
// at the last relabel, including the file being added or removed.
func rulesChanged(rulesPath, stampPath string) bool {
	stamp, err := os.ReadFile(stampPath)
	if err != nil {
		return true
	}
	current, err := readRules(rulesPath)
	if err != nil {
		return true
	}
	return !bytes.Equal(stamp, current)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
