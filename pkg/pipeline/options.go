package pipeline

import (
	"log/slog"

	"github.com/adcdata/go-pipeline/internal/snapshot"
)

// Option configures a pipeline at construction time.
type Option func(*Pipeline) error

// WithCache enables dataset snapshotting under dir, keyed by name. The
// directory is created if needed. Concurrent writers to the same name from
// multiple processes are not guarded against; that is the caller's
// responsibility.
func WithCache(dir, name string) Option {
	return func(p *Pipeline) error {
		store, err := snapshot.New(dir)
		if err != nil {
			return err
		}
		p.cache = store
		p.cacheName = name

		return nil
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger

		return nil
	}
}

// WithMeasure records per-operation execution time across runs, reported
// by Metrics.
func WithMeasure() Option {
	return func(p *Pipeline) error {
		p.measure = newMeasure()

		return nil
	}
}

// WithDrawer enables Draw, which renders the step sequence as a DOT graph
// to the given file.
func WithDrawer(fileName string) Option {
	return func(p *Pipeline) error {
		p.drawFile = fileName

		return nil
	}
}
