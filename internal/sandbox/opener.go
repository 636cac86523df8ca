package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlplayground/internal/catalog"
)

// Options configures an Opener.
type Options struct {
	// Driver is a registry name, see Drivers. Empty means DefaultDriver.
	Driver string
	// ReadOnly opens every file with mode=ro.
	ReadOnly bool
	// MaxRows caps fetched rows per statement; 0 fetches everything.
	MaxRows int
	Logger  *slog.Logger
}

// Opener opens handles on catalog entries.
type Opener struct {
	catalog  *catalog.Catalog
	driver   Driver
	readOnly bool
	maxRows  int
	logger   *slog.Logger
}

// NewOpener validates the driver and returns an Opener over cat.
func NewOpener(cat *catalog.Catalog, opts Options) (*Opener, error) {
	name := opts.Driver
	if name == "" {
		name = DefaultDriver
	}
	drv, err := LookupDriver(name)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Opener{
		catalog:  cat,
		driver:   drv,
		readOnly: opts.ReadOnly,
		maxRows:  opts.MaxRows,
		logger:   logger,
	}, nil
}

// Catalog returns the catalog the opener resolves names against.
func (o *Opener) Catalog() *catalog.Catalog {
	return o.catalog
}

// Open resolves name through the catalog and opens a handle on it.
// The caller owns the handle and must Close it; prefer With.
func (o *Opener) Open(ctx context.Context, name string) (*Handle, error) {
	path, err := o.catalog.Resolve(name)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(o.driver.SQLName, o.driver.DSN(path, o.readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	h, err := newHandle(ctx, name, db, o.maxRows)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}

	o.logger.Debug("opened database", "database", name, "driver", o.driver.Name, "read_only", o.readOnly)
	return h, nil
}

// With opens a handle, passes it to fn and closes it on every exit path,
// panics included. A close failure is joined with fn's error.
func (o *Opener) With(ctx context.Context, name string, fn func(context.Context, *Handle) error) (err error) {
	h, err := o.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			o.logger.Error("failed to close database", "database", name, "error", cerr)
			err = errors.Join(err, fmt.Errorf("failed to close %s: %w", name, cerr))
		}
		o.logger.Debug("closed database", "database", name)
	}()

	return fn(ctx, h)
}
