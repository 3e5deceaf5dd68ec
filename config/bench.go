package config

import (
	"path/filepath"
	"time"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/experiment"
	"github.com/kbukum/vpgbench/metrics"
	"github.com/kbukum/vpgbench/observability"
	"github.com/kbukum/vpgbench/process"
	"github.com/kbukum/vpgbench/report"
	"github.com/kbukum/vpgbench/util"
	"github.com/kbukum/vpgbench/validation"
)

// Bench is the complete vpgbench configuration.
type Bench struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Tools         Tools                `yaml:"tools" mapstructure:"tools"`
	Solver        Solver               `yaml:"solver" mapstructure:"solver"`
	CasesFile     string               `yaml:"cases_file" mapstructure:"cases_file" validate:"required"`
	Results       Results              `yaml:"results" mapstructure:"results"`
	Report        report.Options       `yaml:"report" mapstructure:"report"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	// Force rebuilds every artifact regardless of timestamps.
	Force bool `yaml:"force" mapstructure:"force"`
}

// Tools locates the external binaries.
type Tools struct {
	MCRL2BinPath string        `yaml:"mcrl2_binpath" mapstructure:"mcrl2_binpath"`
	MercBinPath  string        `yaml:"merc_binpath" mapstructure:"merc_binpath"`
	Compiler     string        `yaml:"compiler" mapstructure:"compiler" validate:"required"`
	Generator    string        `yaml:"generator" mapstructure:"generator" validate:"required"`
	Merc         string        `yaml:"merc" mapstructure:"merc" validate:"required"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	GracePeriod  time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
}

// Process returns the executor settings of the preparation tools.
func (t Tools) Process() process.Config {
	return process.Config{Timeout: t.Timeout, GracePeriod: t.GracePeriod}
}

// Solver configures merc-vpg runs.
type Solver struct {
	NodeCapacity int                 `yaml:"node_capacity" mapstructure:"node_capacity" validate:"gt=0"`
	Timeout      time.Duration       `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Variants     []string            `yaml:"variants" mapstructure:"variants"`
	Patterns     metrics.Expressions `yaml:"patterns" mapstructure:"patterns"`
}

// Results locates the store.
type Results struct {
	Dir  string `yaml:"dir" mapstructure:"dir" validate:"required"`
	File string `yaml:"file" mapstructure:"file" validate:"required"`
}

// Path returns the store file.
func (r Results) Path() string {
	if filepath.IsAbs(r.File) {
		return r.File
	}
	return filepath.Join(r.Dir, r.File)
}

// LogPath returns the log file of command inside the results directory.
func (r Results) LogPath(command string) string {
	return filepath.Join(r.Dir, command+".log")
}

// Defaults returns every known key with its default value.
func Defaults() map[string]any {
	d := map[string]any{
		"name":        "vpgbench",
		"environment": "development",
		"version":     "",
		"debug":       false,

		"logging.level":     "info",
		"logging.format":    "console",
		"logging.output":    "stderr",
		"logging.no_color":  false,
		"logging.timestamp": true,
		"logging.caller":    false,

		"tools.mcrl2_binpath": "",
		"tools.merc_binpath":  "",
		"tools.compiler":      "mcrl22lps",
		"tools.generator":     "lps2lts",
		"tools.merc":          "merc-vpg",
		"tools.timeout":       "0s",
		"tools.grace_period":  "5s",

		"solver.node_capacity": experiment.DefaultNodeCapacity,
		"solver.timeout":       "0s",
		"solver.variants":      variantNames(experiment.Variants()),

		"cases_file":   "cases.yaml",
		"results.dir":  "results",
		"results.file": "results.json",

		"report.unit":      report.UnitSeconds,
		"report.precision": 1,
		"report.solutions": false,

		"observability.enabled":     false,
		"observability.endpoint":    "localhost:4318",
		"observability.insecure":    true,
		"observability.sample_rate": 1.0,
		"observability.interval":    "15s",

		"force": false,
	}
	for _, key := range []string{"solving", "recursive_calls", "project", "reachable", "w1_marker", "winning_set"} {
		d["solver.patterns."+key] = ""
	}
	return d
}

// FlagKeys maps the command line flags onto config keys.
var FlagKeys = map[string]string{
	"cases":     "cases_file",
	"results":   "results.dir",
	"variant":   "solver.variants",
	"force":     "force",
	"unit":      "report.unit",
	"precision": "report.precision",
	"solutions": "report.solutions",
	"log-level": "logging.level",
}

// ApplyDefaults fills unset fields.
func (c *Bench) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Tools.Compiler = util.Coalesce(c.Tools.Compiler, "mcrl22lps")
	c.Tools.Generator = util.Coalesce(c.Tools.Generator, "lps2lts")
	c.Tools.Merc = util.Coalesce(c.Tools.Merc, "merc-vpg")
	c.Tools.GracePeriod = util.Coalesce(c.Tools.GracePeriod, 5*time.Second)
	c.Solver.NodeCapacity = util.Coalesce(c.Solver.NodeCapacity, experiment.DefaultNodeCapacity)
	if len(c.Solver.Variants) == 0 {
		c.Solver.Variants = variantNames(experiment.Variants())
	}
	c.CasesFile = util.Coalesce(c.CasesFile, "cases.yaml")
	c.Results.Dir = util.Coalesce(c.Results.Dir, "results")
	c.Results.File = util.Coalesce(c.Results.File, "results.json")
	c.Report.Unit = util.Coalesce(c.Report.Unit, report.UnitSeconds)
	c.Observability.ApplyDefaults()
}

// Validate checks the configuration after defaults were applied.
func (c *Bench) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.Validation(err.Error()).WithCause(err)
	}
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := c.Variants(); err != nil {
		return err
	}
	if _, err := c.Patterns(); err != nil {
		return err
	}
	return nil
}

// Variants returns the parsed solve variants.
func (c *Bench) Variants() ([]experiment.Variant, error) {
	return experiment.ParseVariants(c.Solver.Variants)
}

// Patterns compiles the solver output patterns.
func (c *Bench) Patterns() (metrics.Patterns, error) {
	p, err := metrics.Compile(c.Solver.Patterns)
	if err != nil {
		return metrics.Patterns{}, errors.InvalidInput("solver.patterns", err.Error()).WithCause(err)
	}
	return p, nil
}

// SolverProcess returns the executor settings of merc-vpg runs.
func (c *Bench) SolverProcess() process.Config {
	return process.Config{Timeout: c.Solver.Timeout, GracePeriod: c.Tools.GracePeriod}
}

func variantNames(vs []experiment.Variant) []string {
	return util.Map(vs, experiment.Variant.String)
}
