package prepare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/validation"
)

// Default file and directory names inside a case directory.
const (
	DefaultRenameFile     = "actionrename"
	DefaultFeatureDiagram = "FD"
	DefaultWorkdir        = "tmp"
)

// Manifest lists the cases to prepare and benchmark.
type Manifest struct {
	Cases []Case `yaml:"cases" mapstructure:"cases" validate:"required,min=1,dive"`
}

// Case is one model with the properties to check against it.
type Case struct {
	// Name labels the case in logs and in the results store.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Dir holds the specification and property files.
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required"`
	// Spec is the mCRL2 specification file name.
	Spec string `yaml:"spec" mapstructure:"spec" validate:"required"`
	// Properties are the .mcf formula file names.
	Properties []string `yaml:"properties" mapstructure:"properties"`
	// Rename is the optional action rename rule file.
	Rename string `yaml:"rename,omitempty" mapstructure:"rename"`
	// FeatureDiagram is the feature diagram passed to merc-vpg translate.
	FeatureDiagram string `yaml:"feature_diagram,omitempty" mapstructure:"feature_diagram"`
	// Workdir receives all generated artifacts; relative to Dir.
	Workdir string `yaml:"workdir,omitempty" mapstructure:"workdir"`
}

// LoadManifest reads a YAML manifest. Relative case directories are resolved
// against the manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("case manifest", path).WithCause(err)
		}
		return nil, errors.Internal(fmt.Errorf("prepare: read manifest: %w", err))
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range m.Cases {
		if !filepath.IsAbs(m.Cases[i].Dir) {
			m.Cases[i].Dir = filepath.Join(base, m.Cases[i].Dir)
		}
	}
	return m, nil
}

// ParseManifest decodes, defaults and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidInput("manifest", "manifest is not valid YAML").WithCause(err)
	}
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ApplyDefaults fills in the conventional file names.
func (m *Manifest) ApplyDefaults() {
	for i := range m.Cases {
		m.Cases[i].ApplyDefaults()
	}
}

// ApplyDefaults fills in the conventional file names.
func (c *Case) ApplyDefaults() {
	if c.Rename == "" {
		c.Rename = DefaultRenameFile
	}
	if c.FeatureDiagram == "" {
		c.FeatureDiagram = DefaultFeatureDiagram
	}
	if c.Workdir == "" {
		c.Workdir = DefaultWorkdir
	}
	if c.Name == "" {
		c.Name = c.Spec
	}
}

// Validate checks the manifest structure. File existence is checked
// separately by CheckInputs since run and verify only need the work dirs.
func (m *Manifest) Validate() error {
	if err := validation.ValidateStruct(m); err != nil {
		return err
	}
	v := validation.New()
	seen := make(map[string]bool, len(m.Cases))
	for i, c := range m.Cases {
		field := fmt.Sprintf("cases[%d]", i)
		v.Custom(field+".name", !seen[c.Name], "duplicate case name "+c.Name)
		seen[c.Name] = true
		props := make(map[string]bool, len(c.Properties))
		for j, p := range c.Properties {
			pf := fmt.Sprintf("%s.properties[%d]", field, j)
			v.Required(pf, p)
			v.Custom(pf, !props[gameName(p)], "duplicate property "+p)
			props[gameName(p)] = true
		}
	}
	return v.Validate()
}

// CheckInputs verifies that the source files of every case exist. The
// feature diagram is only required when the case has properties.
func (m *Manifest) CheckInputs() error {
	v := validation.New()
	for i, c := range m.Cases {
		field := fmt.Sprintf("cases[%d]", i)
		v.DirExists(field+".dir", c.Dir)
		v.FileExists(field+".spec", c.SpecPath())
		if len(c.Properties) > 0 {
			v.FileExists(field+".feature_diagram", c.FeatureDiagramPath())
		}
		for j, p := range c.Properties {
			v.FileExists(fmt.Sprintf("%s.properties[%d]", field, j), c.PropertyPath(p))
		}
	}
	return v.Validate()
}

// Base is the spec file name without its extension.
func (c Case) Base() string {
	return strings.TrimSuffix(c.Spec, filepath.Ext(c.Spec))
}

// WorkDir is the directory receiving generated artifacts.
func (c Case) WorkDir() string {
	if filepath.IsAbs(c.Workdir) {
		return c.Workdir
	}
	return filepath.Join(c.Dir, c.Workdir)
}

// SpecPath is the mCRL2 specification.
func (c Case) SpecPath() string { return filepath.Join(c.Dir, c.Spec) }

// LPSPath is the linearised process.
func (c Case) LPSPath() string { return filepath.Join(c.WorkDir(), c.Base()+".lps") }

// AUTPath is the generated state space.
func (c Case) AUTPath() string { return filepath.Join(c.WorkDir(), c.Base()+".aut") }

// RenamedPath is the relabelled state space.
func (c Case) RenamedPath() string { return filepath.Join(c.WorkDir(), c.Base()+".renamed.aut") }

// RenamePath is the rename rule file.
func (c Case) RenamePath() string { return filepath.Join(c.Dir, c.Rename) }

// RulesStampPath records the rules the relabelled state space was built with.
func (c Case) RulesStampPath() string {
	return filepath.Join(c.WorkDir(), c.Base()+".renamed.rules")
}

// FeatureDiagramPath is the feature diagram.
func (c Case) FeatureDiagramPath() string { return filepath.Join(c.Dir, c.FeatureDiagram) }

// PropertyPath is the formula file of property p.
func (c Case) PropertyPath(p string) string { return filepath.Join(c.Dir, p) }

// GamePath is the game generated for property p.
func (c Case) GamePath(p string) string {
	return filepath.Join(c.WorkDir(), gameName(p)+".svpg")
}

func gameName(property string) string {
	return strings.TrimSuffix(property, filepath.Ext(property))
}
