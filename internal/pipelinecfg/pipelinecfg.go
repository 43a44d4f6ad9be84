// Package pipelinecfg loads the middle end's pipeline configuration from a
// YAML manifest, grounded on ailang's internal/manifest versioning
// convention (`schema_version` gate plus `gopkg.in/yaml.v3` unmarshaling).
package pipelinecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only manifest version this package understands; a
// mismatch is a load error rather than a best-effort parse, matching the
// teacher's manifest-versioning discipline.
const SchemaVersion = 1

// Config is the on-disk pipeline manifest: which diagnostics escalate to a
// hard stop, and the Monomorphizer's tuning knobs.
type Config struct {
	SchemaVersion int        `yaml:"schema_version"`
	StopOnError   bool       `yaml:"stop_on_error"`
	Mono          MonoConfig `yaml:"monomorphization"`
}

// MonoConfig holds the monomorphization settings a manifest can carry: the
// recursion depth ceiling, and whether unreachable instantiations are
// emitted for debugging. internal/mono does not read these values; its
// depth limit is its own maxDepth constant.
type MonoConfig struct {
	MaxDepth       int  `yaml:"max_depth"`
	EmitUnreachable bool `yaml:"emit_unreachable"`
}

// Default returns the built-in configuration used when no manifest file is
// given.
func Default() Config {
	return Config{
		SchemaVersion: SchemaVersion,
		StopOnError:   false,
		Mono:          MonoConfig{MaxDepth: 64, EmitUnreachable: false},
	}
}

// Load reads and validates a pipeline manifest from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipelinecfg: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("pipelinecfg: parse %s: %w", path, err)
	}
	if cfg.SchemaVersion != SchemaVersion {
		return Config{}, fmt.Errorf("pipelinecfg: %s declares schema_version %d, expected %d", path, cfg.SchemaVersion, SchemaVersion)
	}
	if cfg.Mono.MaxDepth == 0 {
		cfg.Mono.MaxDepth = 64
	}
	return cfg, nil
}
