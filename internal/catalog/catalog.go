// Package catalog lists the database files a user can pick from.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the suffix a file needs to be listed when no
// extensions are configured.
const DefaultExtension = ".db"

// ErrUnknownDatabase is returned when a name is not part of the catalog.
var ErrUnknownDatabase = errors.New("unknown database")

// DirError reports a databases directory that cannot be read.
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	if errors.Is(e.Err, os.ErrNotExist) {
		return fmt.Sprintf("databases directory does not exist: %s", e.Dir)
	}
	return fmt.Sprintf("failed to read databases directory %s: %v", e.Dir, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// Catalog is a directory of database files filtered by extension.
// It holds no state beyond its configuration; every call re-reads the directory.
type Catalog struct {
	dir        string
	extensions []string
}

// New creates a catalog over dir. An empty extensions list means ".db".
func New(dir string, extensions []string) *Catalog {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	return &Catalog{dir: dir, extensions: exts}
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Extensions returns the suffixes that qualify a file.
func (c *Catalog) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// Matches reports whether a file name carries one of the catalog extensions.
func (c *Catalog) Matches(name string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

// List returns the database file names in directory order.
// A missing directory is an error, never an empty catalog.
func (c *Catalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, &DirError{Dir: c.dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			// Symlinked files are followed; directories named *.db are not.
			if entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			info, err := os.Stat(filepath.Join(c.dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		if c.Matches(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Contains reports whether name is currently listed.
func (c *Catalog) Contains(name string) (bool, error) {
	names, err := c.List()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Resolve returns the path of a listed database.
// Names with path components are rejected before the directory is read.
func (c *Catalog) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDatabase, name)
	}
	ok, err := c.Contains(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDatabase, name)
	}
	return filepath.Join(c.dir, name), nil
}
