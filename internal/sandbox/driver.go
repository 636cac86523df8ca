// Package sandbox opens catalog databases and runs user SQL against them.
package sandbox

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultDriver is the registry name of the pure Go SQLite driver.
const DefaultDriver = "sqlite"

// Driver describes how to open a database file with a database/sql driver.
type Driver struct {
	// Name is the registry key used in configuration.
	Name string
	// SQLName is the name the driver registered with database/sql.
	SQLName string
	// DSN builds the data source name for a file path.
	DSN func(path string, readOnly bool) string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// RegisterDriver adds a driver to the registry.
// Called by driver files in their init() functions.
func RegisterDriver(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name] = d
}

// LookupDriver retrieves a driver by registry name.
func LookupDriver(name string) (Driver, error) {
	registryMu.RLock()
	d, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return Driver{}, &UnknownDriverError{Name: name, Available: Drivers()}
	}
	return d, nil
}

// Drivers returns all registered driver names (sorted).
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when an unregistered driver is requested.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q\nAvailable drivers: %v\nHint: Check driver in sqlplayground.yaml", e.Name, e.Available)
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// fileURI builds a SQLite URI filename. mode=rw never creates a missing file.
func fileURI(path string, readOnly bool) string {
	mode := "rw"
	if readOnly {
		mode = "ro"
	}
	return "file:" + uriEscaper.Replace(path) + "?mode=" + mode
}
