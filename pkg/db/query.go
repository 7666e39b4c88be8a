package db

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/adcdata/go-pipeline/pkg/frame"
)

// FrameFromQuery executes an arbitrary SQL query and returns its result set
// as a frame. Column kinds are derived from the database column types, with
// anything unrecognised read as text.
func (c *Connection) FrameFromQuery(ctx context.Context, query string) (*frame.Frame, error) {
	c.logger.Info("executing query", "database", c.databaseName)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "unable to execute query")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read column names")
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read column types")
	}

	builders := make([]*columnBuilder, len(names))
	holders := make([]any, len(names))
	for i, name := range names {
		builders[i] = newColumnBuilder(name, columnKind(types[i].DatabaseTypeName()))
		holders[i] = builders[i].holder()
	}

	for rows.Next() {
		if err := rows.Scan(holders...); err != nil {
			return nil, errors.Wrap(err, "unable to scan row")
		}
		for _, b := range builders {
			b.commit()
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to iterate rows")
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.column()
	}

	return frame.New(cols...)
}

// FrameFromSQLFile reads a query from a .sql file and executes it.
func (c *Connection) FrameFromSQLFile(ctx context.Context, path string) (*frame.Frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read query file %s", path)
	}

	return c.FrameFromQuery(ctx, string(raw))
}

// columnKind maps a driver-reported database type to a frame kind.
func columnKind(dbType string) frame.Kind {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "BOOL"):
		return frame.Bool
	case strings.Contains(t, "INT"):
		return frame.Int
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"), strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return frame.Float
	default:
		return frame.String
	}
}

// columnBuilder accumulates one column of a result set, tracking NULLs.
type columnBuilder struct {
	name string
	kind frame.Kind

	intHolder    sql.NullInt64
	floatHolder  sql.NullFloat64
	stringHolder sql.NullString
	boolHolder   sql.NullBool

	ints    []int64
	floats  []float64
	strings []string
	bools   []bool
	nulls   []int
}

func newColumnBuilder(name string, kind frame.Kind) *columnBuilder {
	return &columnBuilder{name: name, kind: kind}
}

func (b *columnBuilder) holder() any {
	switch b.kind {
	case frame.Int:
		return &b.intHolder
	case frame.Float:
		return &b.floatHolder
	case frame.Bool:
		return &b.boolHolder
	default:
		return &b.stringHolder
	}
}

func (b *columnBuilder) commit() {
	switch b.kind {
	case frame.Int:
		if !b.intHolder.Valid {
			b.nulls = append(b.nulls, len(b.ints))
		}
		b.ints = append(b.ints, b.intHolder.Int64)
	case frame.Float:
		if !b.floatHolder.Valid {
			b.nulls = append(b.nulls, len(b.floats))
		}
		b.floats = append(b.floats, b.floatHolder.Float64)
	case frame.Bool:
		if !b.boolHolder.Valid {
			b.nulls = append(b.nulls, len(b.bools))
		}
		b.bools = append(b.bools, b.boolHolder.Bool)
	default:
		if !b.stringHolder.Valid {
			b.nulls = append(b.nulls, len(b.strings))
		}
		b.strings = append(b.strings, b.stringHolder.String)
	}
}

func (b *columnBuilder) column() *frame.Column {
	var col *frame.Column
	switch b.kind {
	case frame.Int:
		col = frame.IntCol(b.name, b.ints...)
	case frame.Float:
		col = frame.FloatCol(b.name, b.floats...)
	case frame.Bool:
		col = frame.BoolCol(b.name, b.bools...)
	default:
		col = frame.StringCol(b.name, b.strings...)
	}
	for _, i := range b.nulls {
		col.SetNull(i)
	}

	return col
}
