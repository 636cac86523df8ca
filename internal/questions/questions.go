// Package questions holds the example questions suggested for each database.
//
// The registry is read-only once built. The process-wide default is parsed
// from an embedded YAML document the first time it is requested.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultDocument []byte

// Registry maps a database file name to its example questions.
type Registry struct {
	entries map[string][]string
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("questions: embedded document is invalid: %v", err))
	}
	return r
})

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry()
}

// Parse builds a registry from a YAML mapping of file name to question list.
func Parse(data []byte) (*Registry, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	entries := make(map[string][]string, len(raw))
	for name, list := range raw {
		if strings.TrimSpace(name) == "" {
			return nil, errors.New("failed to parse questions: empty database name")
		}
		cleaned := make([]string, 0, len(list))
		for _, q := range list {
			if q = strings.TrimSpace(q); q != "" {
				cleaned = append(cleaned, q)
			}
		}
		entries[name] = cleaned
	}
	return &Registry{entries: entries}, nil
}

// Load returns the built-in registry overlaid with the file at path.
// Entries in the file replace built-in entries with the same name.
// An empty path returns Default.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}
	overlay, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Default().merge(overlay), nil
}

func (r *Registry) merge(other *Registry) *Registry {
	entries := make(map[string][]string, len(r.entries)+len(other.entries))
	for name, list := range r.entries {
		entries[name] = list
	}
	for name, list := range other.entries {
		entries[name] = list
	}
	return &Registry{entries: entries}
}

// Lookup returns the questions for an exact database file name, or nil.
// The returned slice is a copy.
func (r *Registry) Lookup(name string) []string {
	list, ok := r.entries[name]
	if !ok || len(list) == 0 {
		return nil
	}
	return append([]string(nil), list...)
}

// Names returns the database names that have questions, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
