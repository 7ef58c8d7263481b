package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof/kif"
	"github.com/cognicore/atpproof/pkg/atpproof/skolem"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
	"github.com/cognicore/atpproof/pkg/atpproof/store/memstore"
	"github.com/cognicore/atpproof/pkg/atpproof/store/sqlite"
	"github.com/cognicore/atpproof/pkg/atpproof/tptp"
)

// Loader constructs components from a Config
type Loader struct {
	Config Config
	// LogOutput receives log records; nil means stderr.
	LogOutput io.Writer
}

// Components holds everything the tools need
type Components struct {
	Logger    *slog.Logger
	Converter *kif.Converter // nil when formulas stay in TPTP
	Resolver  *skolem.Resolver
	Store     store.Store // nil when archiving is off
	Dedupe    bool
}

// Load builds the components. The caller closes them with Close.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{
		Logger: newLogger(cfg.Log, l.LogOutput),
		Dedupe: cfg.Parser.Dedupe,
	}
	if cfg.Parser.Convert {
		comp.Converter = kif.New()
	}

	res, err := skolem.NewResolver(skolem.Options{CacheSize: cfg.Skolem.CacheSize, Logger: comp.Logger})
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}
	comp.Resolver = res

	switch cfg.Store.Driver {
	case DriverMemory:
		comp.Store = memstore.New()
	case DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
		}
		comp.Store = st
	}
	return comp, nil
}

// ParseOptions returns transcript parser options for these components.
func (c *Components) ParseOptions() tptp.Options {
	opts := tptp.Options{Logger: c.Logger, KeepDuplicates: !c.Dedupe}
	if c.Converter != nil {
		opts.Converter = c.Converter
	}
	return opts
}

// Close releases the store, if any.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func newLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
