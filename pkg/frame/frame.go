// Package frame provides the in-memory tabular dataset pipelines run
// against: an ordered set of typed columns of uniform length, with a null
// mask per column and the bulk transformation utilities pipelines invoke by
// name (downcasting, column reordering, factorization, NaN handling).
package frame

import (
	"fmt"

	"github.com/pkg/errors"
)

// Frame is a columnar table. The zero value is an empty frame.
type Frame struct {
	cols []*Column
}

// New builds a frame from the given columns. All columns must have the same
// number of rows and distinct names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{}
	for _, col := range cols {
		if err := f.Append(col); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// FromRows builds a frame from row-major data. The kind of each column is
// taken from its first non-nil value; nil values become nulls. Supported
// cell types are int, int64, float64, string and bool.
func FromRows(names []string, rows [][]any) (*Frame, error) {
	cols := make([]*Column, len(names))
	for colIdx, name := range names {
		kind, err := sniffKind(rows, colIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		col := emptyColumn(name, kind, len(rows))
		for rowIdx, row := range rows {
			if colIdx >= len(row) {
				return nil, errors.Wrapf(ErrLengthMismatch, "row %d has %d cells, want %d", rowIdx, len(row), len(names))
			}
			if row[colIdx] == nil {
				continue
			}
			if err := col.set(rowIdx, row[colIdx]); err != nil {
				return nil, errors.Wrapf(err, "column %q row %d", name, rowIdx)
			}
		}
		cols[colIdx] = col
	}

	return New(cols...)
}

func sniffKind(rows [][]any, colIdx int) (Kind, error) {
	for _, row := range rows {
		if colIdx >= len(row) || row[colIdx] == nil {
			continue
		}
		switch row[colIdx].(type) {
		case int, int64:
			return Int, nil
		case float64:
			return Float, nil
		case string:
			return String, nil
		case bool:
			return Bool, nil
		default:
			return 0, errors.Wrapf(ErrKindMismatch, "unsupported cell type %T", row[colIdx])
		}
	}

	// A column of only nulls defaults to float, matching the usual
	// behaviour of tabular libraries for all-NaN columns.
	return Float, nil
}

func emptyColumn(name string, kind Kind, rows int) *Column {
	col := &Column{name: name, kind: kind, valid: make([]bool, rows), width: 64}
	switch kind {
	case Int:
		col.ints = make([]int64, rows)
	case Float:
		col.floats = make([]float64, rows)
	case String:
		col.strs = make([]string, rows)
		col.width = 0
	case Bool:
		col.bools = make([]bool, rows)
		col.width = 8
	}

	return col
}

func (c *Column) set(i int, v any) error {
	switch c.kind {
	case Int:
		switch value := v.(type) {
		case int:
			c.ints[i] = int64(value)
		case int64:
			c.ints[i] = value
		default:
			return errors.Wrapf(ErrKindMismatch, "cannot store %T in an int column", v)
		}
	case Float:
		switch value := v.(type) {
		case float64:
			c.floats[i] = value
		case int:
			c.floats[i] = float64(value)
		case int64:
			c.floats[i] = float64(value)
		default:
			return errors.Wrapf(ErrKindMismatch, "cannot store %T in a float column", v)
		}
	case String:
		value, ok := v.(string)
		if !ok {
			return errors.Wrapf(ErrKindMismatch, "cannot store %T in a string column", v)
		}
		c.strs[i] = value
	case Bool:
		value, ok := v.(bool)
		if !ok {
			return errors.Wrapf(ErrKindMismatch, "cannot store %T in a bool column", v)
		}
		c.bools[i] = value
	}
	c.valid[i] = true

	return nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}

	return f.cols[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.name
	}

	return names
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, bool) {
	for _, col := range f.cols {
		if col.name == name {
			return col, true
		}
	}

	return nil, false
}

// Columns returns the columns in order. The slice is a copy, the columns
// are not.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.cols...)
}

// Append adds a column to the right-hand side of the frame.
func (f *Frame) Append(col *Column) error {
	if _, ok := f.Column(col.name); ok {
		return errors.Wrapf(ErrDuplicateColumn, "%q", col.name)
	}
	if len(f.cols) > 0 && col.Len() != f.NumRows() {
		return errors.Wrapf(ErrLengthMismatch, "column %q has %d rows, frame has %d", col.name, col.Len(), f.NumRows())
	}
	f.cols = append(f.cols, col)

	return nil
}

// Drop removes the named columns.
func (f *Frame) Drop(names ...string) error {
	for _, name := range names {
		if _, ok := f.Column(name); !ok {
			return errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
	}
	kept := f.cols[:0]
	for _, col := range f.cols {
		drop := false
		for _, name := range names {
			if col.name == name {
				drop = true

				break
			}
		}
		if !drop {
			kept = append(kept, col)
		}
	}
	f.cols = kept

	return nil
}

// Row returns one row as a slice of values, nil for nulls.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.cols))
	for colIdx, col := range f.cols {
		row[colIdx] = col.Value(i)
	}

	return row
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{cols: make([]*Column, len(f.cols))}
	for i, col := range f.cols {
		clone.cols[i] = col.clone()
	}

	return clone
}

// Equal compares logical content: column order, names, kinds, null masks,
// values and categories. Storage widths chosen by Downcast are ignored.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || len(f.cols) != len(other.cols) {
		return false
	}
	for i, col := range f.cols {
		if !col.equal(other.cols[i]) {
			return false
		}
	}

	return true
}

// MemoryUsage estimates the bytes the frame occupies at the current
// storage widths.
func (f *Frame) MemoryUsage() int {
	total := 0
	for _, col := range f.cols {
		total += col.memoryUsage()
	}

	return total
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%d rows, %d columns %v)", f.NumRows(), f.NumCols(), f.Names())
}
