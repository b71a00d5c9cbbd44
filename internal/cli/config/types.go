// Package config provides configuration management for the dynabind CLI.
// Configuration is layered: defaults, then dynabind.yaml, then DYNABIND_
// environment variables, then explicitly set flags.
package config

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/dynabind/pkg/sqlbind"
)

// TargetKindScript marks a target backed by a Starlark script instead
// of a database driver.
const TargetKindScript = "script"

// TargetConfig describes one named forwarding target.
type TargetConfig struct {
	// Type is a registered database driver name, or "script".
	Type string `koanf:"type"`

	// Path is the database file or script file path.
	Path string `koanf:"path"`

	// Host is the hostname for network-based databases.
	Host string `koanf:"host"`

	// Port is the port for network-based databases.
	Port int `koanf:"port"`

	// Database is the database name.
	Database string `koanf:"database"`

	// Username for authentication.
	Username string `koanf:"username"`

	// Password for authentication. Supports ${VAR} expansion.
	Password string `koanf:"password"`

	// Options contains additional driver-specific options.
	Options map[string]string `koanf:"options"`
}

// IsScript reports whether the target is script-backed.
func (t TargetConfig) IsScript() bool { return t.Type == TargetKindScript }

// Validate checks the target configuration.
func (t TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required (set type in %s)", ConfigFileName)
	}
	if t.IsScript() {
		if t.Path == "" {
			return fmt.Errorf("script targets require a path")
		}
		return nil
	}
	if !sqlbind.IsRegistered(t.Type) {
		return fmt.Errorf("unknown target type %q (available: %v, or %q)",
			t.Type, sqlbind.List(), TargetKindScript)
	}
	return nil
}

// SQLConfig converts the target to a sqlbind connection config.
func (t TargetConfig) SQLConfig() sqlbind.Config {
	return sqlbind.Config{
		Driver:   t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.Username,
		Password: t.Password,
		Options:  t.Options,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose bool   `koanf:"verbose"`
	Format  string `koanf:"format"`

	// Targets maps target names to their configuration.
	Targets map[string]TargetConfig `koanf:"targets"`
}

// Target returns the named target configuration.
func (c *Config) Target(name string) (TargetConfig, error) {
	t, ok := c.Targets[name]
	if !ok {
		return TargetConfig{}, fmt.Errorf("target %q is not configured (available: %v)", name, c.TargetNames())
	}
	return t, nil
}

// TargetNames returns the configured target names, sorted.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default configuration values.
const (
	DefaultFormat = "table"
)
