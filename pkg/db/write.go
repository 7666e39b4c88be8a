package db

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/adcdata/go-pipeline/pkg/frame"
)

// IfExists selects what FrameToTable does when the target table is already
// present.
type IfExists string

const (
	// Fail aborts the write when the table exists.
	Fail IfExists = "fail"
	// Replace drops the existing table and recreates it.
	Replace IfExists = "replace"
	// Append keeps the existing table and adds the frame's rows to it.
	Append IfExists = "append"
)

// insertChunkSize bounds the number of rows per INSERT statement.
const insertChunkSize = 1000

// FrameToTable writes a frame into a table, creating it if needed. Rows are
// inserted in chunks inside a single transaction, so a failed write leaves
// the table untouched.
func (c *Connection) FrameToTable(ctx context.Context, f *frame.Frame, table string, ifExists IfExists) error {
	if !identifierPattern.MatchString(table) {
		return errors.Wrapf(ErrBadIdentifier, "table %q", table)
	}
	if f.NumCols() == 0 {
		return errors.Wrapf(ErrNoColumns, "cannot write to table %s", table)
	}
	for _, name := range f.Names() {
		if !identifierPattern.MatchString(name) {
			return errors.Wrapf(ErrBadIdentifier, "column %q", name)
		}
	}

	c.logger.Info("inserting frame into table", "table", table, "rows", f.NumRows())

	switch ifExists {
	case Replace:
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return errors.Wrapf(err, "unable to drop table %s", table)
		}
		if _, err := c.db.ExecContext(ctx, createStatement(f, table, false)); err != nil {
			return errors.Wrapf(err, "unable to create table %s", table)
		}
	case Append:
		if _, err := c.db.ExecContext(ctx, createStatement(f, table, true)); err != nil {
			return errors.Wrapf(err, "unable to create table %s", table)
		}
	case Fail, "":
		if _, err := c.db.ExecContext(ctx, createStatement(f, table, false)); err != nil {
			return errors.Wrapf(err, "unable to create table %s", table)
		}
	default:
		return errors.Wrapf(ErrBadMode, "%q", ifExists)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	names := f.Names()
	for start := 0; start < f.NumRows(); start += insertChunkSize {
		end := min(start+insertChunkSize, f.NumRows())
		stmt, args := c.insertStatement(f, table, names, start, end)
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return errors.Wrapf(err, "unable to insert rows %d..%d into table %s", start, end, table)
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit insert")
}

// insertStatement builds a multi-row INSERT for rows [start, end) together
// with its flattened bind arguments.
func (c *Connection) insertStatement(f *frame.Frame, table string, names []string, start, end int) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, (end-start)*len(names))
	n := 1
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, v := range f.Row(i) {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.placeholder(n))
			args = append(args, v)
			n++
		}
		sb.WriteString(")")
	}

	return sb.String(), args
}

func createStatement(f *frame.Frame, table string, ifNotExists bool) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(table)
	sb.WriteString(" (")
	for i, col := range f.Columns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name())
		sb.WriteString(" ")
		sb.WriteString(sqlType(col.Kind()))
	}
	sb.WriteString(")")

	return sb.String()
}

func sqlType(k frame.Kind) string {
	switch k {
	case frame.Int:
		return "BIGINT"
	case frame.Float:
		return "DOUBLE PRECISION"
	case frame.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
