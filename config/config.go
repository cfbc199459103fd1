// Package config loads declarative algorithm parameters for the search
// engine from YAML, in the style of the teacher's own cmd/aleutian/config
// loader: read a file, unmarshal into a typed struct, fall back to
// documented defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/trajectory/algo"
	"github.com/elektrokombinacija/trajectory/errs"
)

// StopCriteria configures search.StopCriterionChecker. Zero fields mean
// "criterion not installed" rather than "zero threshold".
type StopCriteria struct {
	MaxRuntime                 time.Duration `yaml:"max_runtime"`
	MaxSteps                   int64         `yaml:"max_steps"`
	MaxStepsWithoutImprovement int64         `yaml:"max_steps_without_improvement"`
	MaxTimeWithoutImprovement  time.Duration `yaml:"max_time_without_improvement"`
	MinDeltaThreshold          float64       `yaml:"min_delta_threshold"`
	TargetValue                *float64      `yaml:"target_value"`
	CheckInterval              time.Duration `yaml:"check_interval"`
}

// Metropolis configures algo.MetropolisSearch / the per-replica
// temperature of algo.ParallelTempering's Metropolis component.
type Metropolis struct {
	Temperature float64 `yaml:"temperature"`
}

// Tabu configures algo.TabuSearch / algo.FirstBestAdmissibleTabuSearch.
type Tabu struct {
	// Kind selects the TabuMemory implementation: "fifo", "set", or
	// "idset" (subset.IDSetTabuMemory, for subset.Solution problems).
	Kind     string `yaml:"kind"`
	Capacity int    `yaml:"capacity"`
}

// ParallelTempering configures algo.ParallelTempering's replica ensemble.
type ParallelTempering struct {
	Replicas     int     `yaml:"replicas"`
	MinTemp      float64 `yaml:"min_temp"`
	MaxTemp      float64 `yaml:"max_temp"`
	ReplicaSteps int64   `yaml:"replica_steps"`
}

// Config is the root document a YAML config file unmarshals into. Every
// section is optional; an embedding application wires only the sections
// relevant to the algorithms it runs.
type Config struct {
	StopCriteria      StopCriteria      `yaml:"stop_criteria"`
	Metropolis        Metropolis        `yaml:"metropolis"`
	Tabu              Tabu              `yaml:"tabu"`
	ParallelTempering ParallelTempering `yaml:"parallel_tempering"`
}

// Default returns the module's documented default configuration: a
// ten-second runtime cap, no other stop criteria, temperature 1.0, a
// FIFO tabu memory of capacity 20, and a four-replica parallel-tempering
// ensemble spanning [0.5, 5.0].
func Default() Config {
	return Config{
		StopCriteria: StopCriteria{
			MaxRuntime:    10 * time.Second,
			CheckInterval: time.Second,
		},
		Metropolis: Metropolis{Temperature: 1.0},
		Tabu:       Tabu{Kind: "fifo", Capacity: 20},
		ParallelTempering: ParallelTempering{
			Replicas:     4,
			MinTemp:      0.5,
			MaxTemp:      5.0,
			ReplicaSteps: algo.DefaultReplicaSteps,
		},
	}
}

// Load reads and unmarshals the YAML document at path, starting from
// Default() so any field the file omits keeps its documented default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants the YAML schema itself cannot
// express (spec.md's ConfigurationError taxonomy, §7).
func (c Config) Validate() error {
	if c.Metropolis.Temperature <= 0 {
		return &errs.ConfigurationError{Component: "Metropolis", Field: "temperature", Reason: "must be > 0"}
	}
	if c.ParallelTempering.Replicas < 1 {
		return &errs.ConfigurationError{Component: "ParallelTempering", Field: "replicas", Reason: "must be >= 1"}
	}
	if c.ParallelTempering.MinTemp <= 0 || c.ParallelTempering.MinTemp > c.ParallelTempering.MaxTemp {
		return &errs.ConfigurationError{Component: "ParallelTempering", Field: "min_temp,max_temp", Reason: "require 0 < min_temp <= max_temp"}
	}
	if c.ParallelTempering.ReplicaSteps < 0 {
		return &errs.ConfigurationError{Component: "ParallelTempering", Field: "replica_steps", Reason: "must be >= 0 (0 defers to algo.DefaultReplicaSteps)"}
	}
	if c.Tabu.Capacity < 0 {
		return &errs.ConfigurationError{Component: "Tabu", Field: "capacity", Reason: "must be >= 0"}
	}
	return nil
}
