package frame

import (
	"math"

	"github.com/pkg/errors"
)

// Downcast shrinks the storage width of numeric columns to the narrowest
// class that holds their data. Integer columns become unsigned unless they
// contain negative values or are listed in signedCols; float columns drop
// to 32 bits when every value survives the round trip. It returns the
// estimated memory usage before and after.
func (f *Frame) Downcast(signedCols []string) (before, after int) {
	before = f.MemoryUsage()
	for _, col := range f.cols {
		switch col.kind {
		case Int:
			col.downcastInts(contains(signedCols, col.name))
		case Float:
			col.downcastFloats()
		}
	}

	return before, f.MemoryUsage()
}

func (c *Column) downcastInts(forceSigned bool) {
	signed := forceSigned
	var minVal, maxVal int64
	for i, v := range c.ints {
		if !c.valid[i] {
			continue
		}
		if v < 0 {
			signed = true
		}
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	c.unsigned = !signed
	if signed {
		switch {
		case minVal >= math.MinInt8 && maxVal <= math.MaxInt8:
			c.width = 8
		case minVal >= math.MinInt16 && maxVal <= math.MaxInt16:
			c.width = 16
		case minVal >= math.MinInt32 && maxVal <= math.MaxInt32:
			c.width = 32
		default:
			c.width = 64
		}

		return
	}
	switch {
	case maxVal <= math.MaxUint8:
		c.width = 8
	case maxVal <= math.MaxUint16:
		c.width = 16
	case maxVal <= math.MaxUint32:
		c.width = 32
	default:
		c.width = 64
	}
}

func (c *Column) downcastFloats() {
	for i, v := range c.floats {
		if !c.valid[i] {
			continue
		}
		if float64(float32(v)) != v {
			c.width = 64

			return
		}
	}
	c.width = 32
}

// ReorderColumns moves the named columns, in the order given, to the
// position index. The index is relative to the frame with the named columns
// removed, matching a drop-then-insert.
func (f *Frame) ReorderColumns(names []string, index int) error {
	moved := make([]*Column, 0, len(names))
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
		moved = append(moved, col)
	}

	remaining := make([]*Column, 0, len(f.cols)-len(moved))
	for _, col := range f.cols {
		if !contains(names, col.name) {
			remaining = append(remaining, col)
		}
	}
	if index < 0 || index > len(remaining) {
		return errors.Wrapf(ErrIndexRange, "index %d with %d remaining columns", index, len(remaining))
	}

	reordered := make([]*Column, 0, len(f.cols))
	reordered = append(reordered, remaining[:index]...)
	reordered = append(reordered, moved...)
	reordered = append(reordered, remaining[index:]...)
	f.cols = reordered

	return nil
}

// DropSingleValueColumns removes every column whose values collapse to at
// most one distinct value. A present null counts as a value of its own, so
// a constant column with some nulls is kept while an all-null column is
// dropped. Columns listed in skip are kept. It returns the names of the
// dropped columns.
func (f *Frame) DropSingleValueColumns(skip []string) []string {
	var dropped []string
	kept := f.cols[:0]
	for _, col := range f.cols {
		if !contains(skip, col.name) && col.distinct() <= 1 {
			dropped = append(dropped, col.name)

			continue
		}
		kept = append(kept, col)
	}
	f.cols = kept

	return dropped
}

// Factorize replaces each named string column with integer codes assigned
// in order of first appearance. The category table is kept on the column
// and exposed through Categories. Nulls stay null.
func (f *Frame) Factorize(names []string) error {
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
		if col.kind != String {
			return errors.Wrapf(ErrKindMismatch, "column %q is %s, factorize needs string", name, col.kind)
		}
		codes := make([]int64, col.Len())
		index := make(map[string]int64, col.Len())
		var categories []string
		for i, s := range col.strs {
			if !col.valid[i] {
				continue
			}
			code, ok := index[s]
			if !ok {
				code = int64(len(categories))
				index[s] = code
				categories = append(categories, s)
			}
			codes[i] = code
		}
		col.kind = Int
		col.ints = codes
		col.strs = nil
		col.width = 64
		col.unsigned = false
		col.categories = categories
	}

	return nil
}

// FillNaNs writes value into every null entry of the named columns, or of
// every column when names is empty. The value must match each column's
// kind.
func (f *Frame) FillNaNs(value any, names []string) error {
	cols := f.cols
	if len(names) > 0 {
		cols = make([]*Column, 0, len(names))
		for _, name := range names {
			col, ok := f.Column(name)
			if !ok {
				return errors.Wrapf(ErrUnknownColumn, "%q", name)
			}
			cols = append(cols, col)
		}
	}
	for _, col := range cols {
		for i := range col.valid {
			if col.valid[i] {
				continue
			}
			if err := col.set(i, value); err != nil {
				return errors.Wrapf(err, "column %q", col.name)
			}
		}
	}

	return nil
}

// DropNaNRows removes every row with a null in any column.
func (f *Frame) DropNaNRows() {
	rows := f.NumRows()
	if rows == 0 {
		return
	}
	keep := make([]bool, rows)
	for i := range keep {
		keep[i] = true
		for _, col := range f.cols {
			if !col.valid[i] {
				keep[i] = false

				break
			}
		}
	}
	for _, col := range f.cols {
		col.filter(keep)
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
