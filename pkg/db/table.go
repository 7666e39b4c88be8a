package db

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/adcdata/go-pipeline/internal/snapshot"
	"github.com/adcdata/go-pipeline/pkg/frame"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FrameFromTable reads a whole table into a frame. When a table cache is
// configured the cached copy is returned if present, otherwise the table is
// read from the database and cached for the next call.
func (c *Connection) FrameFromTable(ctx context.Context, table string) (*frame.Frame, error) {
	if !identifierPattern.MatchString(table) {
		return nil, errors.Wrapf(ErrBadIdentifier, "table %q", table)
	}

	if c.cache == nil {
		c.logger.Info("reading table from database", "table", table)

		return c.readTable(ctx, table)
	}

	var cached frame.Frame
	err := c.cache.Load(table, 0, &cached)
	if err == nil {
		c.logger.Info("cache available, reading cache", "table", table)

		return &cached, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		return nil, errors.Wrapf(err, "unable to read cache for table %s", table)
	}

	c.logger.Info("cache not available, reading and caching table", "table", table)
	f, err := c.readTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Save(table, 0, f); err != nil {
		return nil, errors.Wrapf(err, "unable to cache table %s", table)
	}

	return f, nil
}

// FramesFromTables reads several tables concurrently and returns them keyed
// by table name. The first failing read cancels the others.
func (c *Connection) FramesFromTables(ctx context.Context, tables ...string) (map[string]*frame.Frame, error) {
	grp, gctx := errgroup.WithContext(ctx)
	results := make([]*frame.Frame, len(tables))

	for i, table := range tables {
		grp.Go(func() error {
			f, err := c.FrameFromTable(gctx, table)
			if err != nil {
				return errors.Wrapf(err, "table %s", table)
			}
			results[i] = f

			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*frame.Frame, len(tables))
	for i, table := range tables {
		out[table] = results[i]
	}

	return out, nil
}

func (c *Connection) readTable(ctx context.Context, table string) (*frame.Frame, error) {
	return c.FrameFromQuery(ctx, "SELECT * FROM "+table)
}
