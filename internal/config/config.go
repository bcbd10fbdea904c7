package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/midifile"
	"github.com/ivlev/animkit/internal/sampler"
	"github.com/ivlev/animkit/internal/system"
)

type Config struct {
	FPS          int            `yaml:"fps"`
	Workers      int            `yaml:"workers"`
	Format       sampler.Format `yaml:"format"`
	ScenarioDir  string         `yaml:"scenarioDir"`
	MidiMapping  []MidiEntry    `yaml:"midiMapping,omitempty"`
	Verbose      bool           `yaml:"verbose"`
	BuildVersion string         `yaml:"-"`
}

// MidiEntry is the YAML form of one controller mapping.
type MidiEntry struct {
	Controller uint8   `yaml:"controller"`
	Channel    uint8   `yaml:"channel"`
	Target     string  `yaml:"target"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
}

var ErrInvalid = errors.New("invalid config")

// Default returns the built-in settings. Workers follows the number of
// logical CPUs.
func Default() Config {
	workers := runtime.NumCPU()
	if stats, err := system.Probe(); err == nil && stats.LogicalCPUs > 0 {
		workers = stats.LogicalCPUs
	}
	return Config{
		FPS:         30,
		Workers:     workers,
		Format:      sampler.FormatJSON,
		ScenarioDir: "scenarios",
	}
}

// Load overlays the YAML file at path on Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if _, err := sampler.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Mapping(); err != nil {
		return err
	}
	return nil
}

// Mapping returns the configured controller mapping, or the default one when
// none is set.
func (c Config) Mapping() (midifile.Mapping, error) {
	if len(c.MidiMapping) == 0 {
		return midifile.DefaultMapping(), nil
	}
	m := make(midifile.Mapping, len(c.MidiMapping))
	for i, e := range c.MidiMapping {
		if e.Channel > 15 {
			return nil, fmt.Errorf("%w: midiMapping[%d]: channel must be 0-15, got %d", ErrInvalid, i, e.Channel)
		}
		if e.Controller > 127 {
			return nil, fmt.Errorf("%w: midiMapping[%d]: controller must be 0-127, got %d", ErrInvalid, i, e.Controller)
		}
		target, err := beat.ParseTarget(e.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: midiMapping[%d]: %w", ErrInvalid, i, err)
		}
		m[i] = midifile.Entry{Controller: e.Controller, Channel: e.Channel, Target: target, Min: e.Min, Max: e.Max}
	}
	return m, nil
}
