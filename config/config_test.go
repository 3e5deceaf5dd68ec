package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/vpgbench/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		cfg := ServiceConfig{}
		cfg.ApplyDefaults()
		if cfg.Name != "vpgbench" || cfg.Environment != "development" {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if cfg.Logging.Output != "stderr" {
			t.Errorf("expected logs on stderr, got %q", cfg.Logging.Output)
		}
	})

	t.Run("debug lowers log level", func(t *testing.T) {
		cfg := ServiceConfig{Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid", ServiceConfig{Name: "vpgbench", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "vpgbench", Environment: "lab"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadBenchDefaults(t *testing.T) {
	var cfg Bench
	err := LoadConfig("vpgbench", &cfg, WithFileSystem(&mockFS{}), WithDefaults(Defaults()))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Tools.Merc != "merc-vpg" || cfg.Solver.NodeCapacity != 1000000 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Tools.GracePeriod != 5*time.Second {
		t.Errorf("expected 5s grace period, got %v", cfg.Tools.GracePeriod)
	}
	if !reflect.DeepEqual(cfg.Solver.Variants, []string{"family", "product", "family-optimised-left"}) {
		t.Errorf("unexpected variants %v", cfg.Solver.Variants)
	}
	if cfg.Results.Path() != filepath.Join("results", "results.json") {
		t.Errorf("unexpected results path %q", cfg.Results.Path())
	}
}

func TestLoadBenchFromYAML(t *testing.T) {
	path := writeConfig(t, `
name: bench
environment: staging
tools:
  mcrl2_binpath: /opt/mcrl2/bin
  timeout: 90s
solver:
  node_capacity: 2000000
  variants: [product]
  patterns:
    project: 'project took ([0-9.]+)s'
results:
  dir: out
report:
  unit: ms
  precision: 2
`)
	var cfg Bench
	if err := LoadConfig("vpgbench", &cfg, WithConfigFile(path), WithDefaults(Defaults())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Name != "bench" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Tools.MCRL2BinPath != "/opt/mcrl2/bin" || cfg.Tools.Timeout != 90*time.Second {
		t.Errorf("unexpected tools %+v", cfg.Tools)
	}
	if cfg.Solver.NodeCapacity != 2000000 {
		t.Errorf("expected node capacity 2000000, got %d", cfg.Solver.NodeCapacity)
	}
	vs, _ := cfg.Variants()
	if len(vs) != 1 || vs[0] != "product" {
		t.Errorf("unexpected variants %v", vs)
	}
	p, err := cfg.Patterns()
	if err != nil {
		t.Fatal(err)
	}
	if !p.Project.MatchString("project took 0.5s") {
		t.Error("configured project pattern not used")
	}
	if !p.Solving.MatchString("Time solve_variability_zielonka: 1.0s") {
		t.Error("unset pattern must fall back to the default")
	}
	if cfg.Report.Unit != "ms" || cfg.Report.Precision != 2 {
		t.Errorf("unexpected report options %+v", cfg.Report)
	}
	if cfg.Results.Path() != filepath.Join("out", "results.json") {
		t.Errorf("unexpected results path %q", cfg.Results.Path())
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tools:\n  merc_binpath: /from/file\n")
	t.Setenv("TOOLS_MERC_BINPATH", "/from/env")
	t.Setenv("SOLVER_NODE_CAPACITY", "42")
	t.Setenv("SOLVER_VARIANTS", "family,product")

	var cfg Bench
	if err := LoadConfig("vpgbench", &cfg, WithConfigFile(path), WithDefaults(Defaults())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Tools.MercBinPath != "/from/env" {
		t.Errorf("expected env override, got %q", cfg.Tools.MercBinPath)
	}
	if cfg.Solver.NodeCapacity != 42 {
		t.Errorf("expected 42, got %d", cfg.Solver.NodeCapacity)
	}
	if !reflect.DeepEqual(cfg.Solver.Variants, []string{"family", "product"}) {
		t.Errorf("unexpected variants %v", cfg.Solver.Variants)
	}
	if cfg.Tools.Merc != "merc-vpg" {
		t.Errorf("tools.merc must keep its default, got %q", cfg.Tools.Merc)
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CASES_FILE", "env.yaml")

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.String("cases", "", "")
	fs.String("results", "", "")
	fs.StringSlice("variant", nil, "")
	fs.Bool("force", false, "")
	fs.String("unit", "", "")
	fs.Int("precision", 1, "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--cases", "flag.yaml", "--variant", "product", "--variant", "family", "--force"}); err != nil {
		t.Fatal(err)
	}

	var cfg Bench
	err := LoadConfig("vpgbench", &cfg, WithFileSystem(&mockFS{}), WithDefaults(Defaults()), WithFlags(fs, FlagKeys))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CasesFile != "flag.yaml" {
		t.Errorf("expected flag to win, got %q", cfg.CasesFile)
	}
	if !reflect.DeepEqual(cfg.Solver.Variants, []string{"product", "family"}) {
		t.Errorf("unexpected variants %v", cfg.Solver.Variants)
	}
	if !cfg.Force {
		t.Error("expected force from flag")
	}
	if cfg.Results.Dir != "results" {
		t.Errorf("unchanged flag must not override, got %q", cfg.Results.Dir)
	}
}

func TestLoadConfigUnknownFlag(t *testing.T) {
	fs := pflag.NewFlagSet("x", pflag.ContinueOnError)
	err := LoadConfig("vpgbench", &Bench{}, WithFileSystem(&mockFS{}), WithFlags(fs, map[string]string{"nope": "force"}))
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg Bench
	err := LoadConfig("vpgbench", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestBenchValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Bench)
		errMsg string
	}{
		{"bad variant", func(c *Bench) { c.Solver.Variants = []string{"zielonka"} }, "variant"},
		{"bad unit", func(c *Bench) { c.Report.Unit = "h" }, "report.unit"},
		{"bad pattern", func(c *Bench) { c.Solver.Patterns.Project = "no groups" }, "pattern project"},
		{"bad sample rate", func(c *Bench) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
		{"bad environment", func(c *Bench) { c.Environment = "lab" }, "config.environment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Bench
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected %q in %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestResultsLogPath(t *testing.T) {
	r := Results{Dir: "out", File: "/abs/results.json"}
	if r.Path() != "/abs/results.json" {
		t.Errorf("absolute file must be kept, got %q", r.Path())
	}
	if r.LogPath("run") != filepath.Join("out", "run.log") {
		t.Errorf("unexpected log path %q", r.LogPath("run"))
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/vpgbench/config.yml": true,
		filepath.Join("config", ".env"): true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("vpgbench", LoaderConfig{})
	if files.ConfigFile != "./cmd/vpgbench/config.yml" {
		t.Errorf("expected config file at ./cmd/vpgbench/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != filepath.Join("config", ".env") {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("vpgbench", LoaderConfig{ConfigFile: "mine.yml"})
	if explicit.ConfigFile != "mine.yml" {
		t.Errorf("explicit path must win, got %q", explicit.ConfigFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("TOOLS_MERC_BINPATH")
	for _, want := range []string{"tools.merc_binpath", "tools.merc.binpath", "tools_merc_binpath"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("FORCE"); !reflect.DeepEqual(got, []string{"force"}) {
		t.Errorf("unexpected variants %v", got)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
