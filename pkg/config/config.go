// Package config loads and validates the YAML file that drives emflow.
//
// A config names the project, the desktop session, and which pipeline stages to run:
// geometry, topology, setup, sweep, solve, reports and the PDF document. Sections that
// are absent disable their stage.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hawkeye-rf/emflow/pkg/adapters/bridge"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"gopkg.in/yaml.v3"
)

// Defaults taken from the reference 24 GHz backscatter-tag workflow.
const (
	DefaultVersion      = "2023.1"
	DefaultSetupName    = "Setup_24G"
	DefaultFrequency    = "24GHz"
	DefaultMaxPasses    = 10
	DefaultDeltaS       = 0.01
	DefaultSweepUnits   = "GHz"
	DefaultExportDir    = "Reports"
	DefaultDocumentName = "FarFieldReport.pdf"
	DefaultSphereName   = "Infinite Sphere 1"
	DefaultStorePath    = ".emflow/runs"
	DefaultServeAddr    = ":8080"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the root of an emflow YAML file.
type Config struct {
	Log     LogConfig             `yaml:"log"`
	Session domain.SessionOptions `yaml:"session"`
	Project domain.ProjectRef     `yaml:"project"`
	Bridge  bridge.Config         `yaml:"bridge"`
	Store   StoreConfig           `yaml:"store"`
	Serve   ServeConfig           `yaml:"serve"`
	Inspect InspectConfig         `yaml:"inspect"`

	Geometry *domain.CellGeometry `yaml:"geometry"`
	Topology *TopologyConfig      `yaml:"topology"`
	Setup    *SetupConfig         `yaml:"setup"`
	Sweep    *domain.SweepSpec    `yaml:"sweep"`
	Solve    bool                 `yaml:"solve"`
	Reports  []domain.ReportSpec  `yaml:"reports" validate:"dive"`
	Export   ExportConfig         `yaml:"export"`
	Document *domain.DocumentSpec `yaml:"document"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// StoreConfig selects where run records are kept.
type StoreConfig struct {
	Kind  string      `yaml:"kind" validate:"omitempty,oneof=memory file redis"`
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	// LockTTL is the expiry of the desktop lock; zero keeps the session default.
	LockTTL time.Duration `yaml:"lock_ttl" validate:"gte=0"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

type InspectConfig struct {
	MaxTraces     int    `yaml:"max_traces" validate:"gte=0"`
	TraceCategory string `yaml:"trace_category"`
}

// TopologyConfig selects one excitation topology. Only the section matching Kind is used.
type TopologyConfig struct {
	Kind     domain.TopologyKind `yaml:"kind" validate:"required,oneof=periodic finite"`
	Anchor   string              `yaml:"anchor" validate:"required"`
	Periodic *domain.Periodic    `yaml:"periodic"`
	Finite   *domain.Finite      `yaml:"finite"`
}

// Topology returns the selected variant with defaults applied, or nil when its section is missing.
func (t *TopologyConfig) Topology() domain.Topology {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case domain.TopologyPeriodic:
		if t.Periodic != nil {
			return t.Periodic.WithDefaults()
		}
	case domain.TopologyFinite:
		if t.Finite != nil {
			return t.Finite.WithDefaults()
		}
	}
	return nil
}

type SetupConfig struct {
	domain.SetupSpec `yaml:",inline"`
	// UpdateExisting pushes drifted properties onto a setup that already exists.
	UpdateExisting bool `yaml:"update_existing"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	XLSX   bool   `yaml:"xlsx"`
	Replot bool   `yaml:"replot"`
}

// Override edits a decoded config before defaults and validation run.
type Override func(*Config)

// WithProject replaces project.path when path is not empty.
func WithProject(path string) Override {
	return func(c *Config) {
		if path != "" {
			c.Project.Path = path
		}
	}
}

// Load reads, defaults and validates a config file.
func Load(path string, overrides ...Override) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, overrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies overrides and defaults, and validates the result.
func Parse(data []byte, overrides ...Override) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config for project with every default applied. It is not validated.
func Default(project string) *Config {
	cfg := &Config{Project: domain.ProjectRef{Path: project}}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Session.Version == "" {
		c.Session.Version = DefaultVersion
	}
	c.Bridge = c.Bridge.WithDefaults()
	if c.Store.Kind == "" {
		c.Store.Kind = StoreFile
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}

	if s := c.Setup; s != nil {
		if s.Name == "" {
			s.Name = DefaultSetupName
		}
		if s.Frequency == "" {
			s.Frequency = DefaultFrequency
		}
		if s.MaximumPasses == 0 {
			s.MaximumPasses = DefaultMaxPasses
		}
		if s.DeltaS == 0 {
			s.DeltaS = DefaultDeltaS
		}
		extra, err := normalizeExtra(s.Extra)
		if err != nil {
			return err
		}
		s.Extra = extra
	}

	if sw := c.Sweep; sw != nil {
		if sw.Setup == "" && c.Setup != nil {
			sw.Setup = c.Setup.Name
		}
		if sw.Units == "" {
			sw.Units = DefaultSweepUnits
		}
		if sw.Kind == "" {
			sw.Kind = domain.SweepDiscrete
		} else {
			kind, err := domain.ParseSweepKind(string(sw.Kind))
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			sw.Kind = kind
		}
	}

	sphere := ""
	if t := c.Topology; t != nil && t.Finite != nil && t.Finite.Sphere != nil {
		if t.Finite.Sphere.Name == "" {
			t.Finite.Sphere.Name = DefaultSphereName
		}
		sphere = t.Finite.Sphere.Name
	}
	for i := range c.Reports {
		r := &c.Reports[i]
		if r.Solution == "" && c.Sweep != nil {
			r.Solution = c.Sweep.Solution()
		}
		if r.Type.IsFarField() && r.FarFieldSetup == "" && sphere != "" {
			r.FarFieldSetup = sphere
		}
		if !r.Image && !r.Data {
			r.Image, r.Data = true, true
		}
	}

	if d := c.Document; d != nil && d.Path == "" {
		d.Path = filepath.Join(c.Export.Dir, DefaultDocumentName)
	}
	return nil
}

// Requirements is what the configured sweep must support.
func (c *Config) Requirements() domain.SweepRequirements {
	return c.Plan().Requirements()
}

// Plan converts the config into a pipeline plan.
func (c *Config) Plan() workflow.Plan {
	p := workflow.Plan{
		Session:  c.Session,
		Project:  c.Project,
		Geometry: c.Geometry,
		Sweep:    c.Sweep,
		Solve:    c.Solve,
		Reports:  c.Reports,
		Export: workflow.ExportOptions{
			Dir:    c.Export.Dir,
			XLSX:   c.Export.XLSX,
			Replot: c.Export.Replot,
		},
		Document: c.Document,
	}
	if c.Topology != nil {
		p.Topology = c.Topology.Topology()
		p.Anchor = c.Topology.Anchor
	}
	if c.Setup != nil {
		spec := c.Setup.SetupSpec
		p.Setup = &spec
		p.UpdateExistingSetup = c.Setup.UpdateExisting
	}
	return p
}

// InspectOptions returns the inspection tuning.
func (c *Config) InspectOptions() workflow.InspectOptions {
	return workflow.InspectOptions{MaxTraces: c.Inspect.MaxTraces, TraceCategory: c.Inspect.TraceCategory}
}
