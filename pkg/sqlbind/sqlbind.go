// Package sqlbind exposes database handles (connections, commands, row
// cursors) as forward.Target implementations. A connection handle creates
// command handles, a command registers named parameters via member writes
// and executes into a forward-only cursor, and a cursor resolves member
// reads against the current row's columns.
package sqlbind

import (
	"fmt"
	"sort"
	"sync"
)

// Config holds the connection settings for a database target.
type Config struct {
	// Driver selects the registered driver (e.g. "duckdb", "sqlite", "postgres").
	Driver string

	// Path is the file path for file-based databases. ":memory:" selects
	// an in-memory database.
	Path string

	// Host is the hostname for network-based databases.
	Host string

	// Port is the port number for network-based databases.
	Port int

	// Database is the database name.
	Database string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Options contains additional driver-specific options.
	Options map[string]string
}

// Driver describes a registered database driver.
type Driver struct {
	// Name is the registry key.
	Name string

	// SQLDriver is the database/sql driver name to open with.
	SQLDriver string

	// DSN builds the data source name from a Config.
	DSN func(Config) string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// Register adds a driver to the registry.
// Called by driver files in their init() functions.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name] = d
}

// Get retrieves a registered driver by name.
func Get(name string) (Driver, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	return d, ok
}

// List returns all registered driver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a driver name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownDriverError is returned when an unknown driver is requested.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q (available: %v)", e.Name, e.Available)
}
