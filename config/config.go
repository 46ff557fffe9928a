package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmayer/consolefs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
// The capacities mirror a small fixed-memory target: the whole tree fits in
// a statically sized pool with no allocator behind it.
const (
	// DefaultMaxNodes is the arena capacity; allocation past it is a hard
	// failure, never a crash.
	DefaultMaxNodes = 64

	// DefaultMaxChildren is the per-directory child list capacity.
	DefaultMaxChildren = 16

	// DefaultMaxNameLen is the usable bytes of a node name; longer path
	// components truncate silently.
	DefaultMaxNameLen = 15

	// DefaultMaxContentLen is the usable bytes of file content; longer
	// writes truncate silently.
	DefaultMaxContentLen = 127

	// DefaultMaxScriptDepth bounds script re-entrancy (scripts exec'ing
	// scripts).
	DefaultMaxScriptDepth = 4
)

// Verbosity levels accepted from the CLI, mapped onto internal log levels.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the filesystem core and
// shell.
type Config struct {
	MaxNodes       int           // Arena node pool capacity (Default 64)
	MaxChildren    int           // Per-directory child list capacity (Default 16)
	MaxNameLen     int           // Usable node name bytes (Default 15)
	MaxContentLen  int           // Usable file content bytes (Default 127)
	MaxScriptDepth int           // Script nesting depth bound (Default 4)
	LogLvl         util.LogLevel // Internal log level derived from verbosity
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions. LogLvl is CLI verbosity (1=error .. 5=trace), not the
// internal level.
type ConfigOverride struct {
	MaxNodes       *int `yaml:"max_nodes,omitempty" json:"max_nodes,omitempty"`
	MaxChildren    *int `yaml:"max_children,omitempty" json:"max_children,omitempty"`
	MaxNameLen     *int `yaml:"max_name_len,omitempty" json:"max_name_len,omitempty"`
	MaxContentLen  *int `yaml:"max_content_len,omitempty" json:"max_content_len,omitempty"`
	MaxScriptDepth *int `yaml:"max_script_depth,omitempty" json:"max_script_depth,omitempty"`
	LogLvl         *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MaxNodes:       DefaultMaxNodes,
		MaxChildren:    DefaultMaxChildren,
		MaxNameLen:     DefaultMaxNameLen,
		MaxContentLen:  DefaultMaxContentLen,
		MaxScriptDepth: DefaultMaxScriptDepth,
		LogLvl:         util.InfoLevel,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override returns the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.MaxNodes != nil {
		c.MaxNodes = *override.MaxNodes
	}
	if override.MaxChildren != nil {
		c.MaxChildren = *override.MaxChildren
	}
	if override.MaxNameLen != nil {
		c.MaxNameLen = *override.MaxNameLen
	}
	if override.MaxContentLen != nil {
		c.MaxContentLen = *override.MaxContentLen
	}
	if override.MaxScriptDepth != nil {
		c.MaxScriptDepth = *override.MaxScriptDepth
	}
	if override.LogLvl != nil {
		c.LogLvl = verbosityToLevel(*override.LogLvl)
	}
}

// verbosityToLevel converts CLI verbosity (1-5, clamped) to the internal
// log level.
func verbosityToLevel(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	levels := [...]util.LogLevel{
		util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel,
	}
	return levels[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without
// merging. Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with
// defaults.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
