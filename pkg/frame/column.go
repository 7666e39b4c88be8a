package frame

import "github.com/pkg/errors"

var (
	ErrUnknownColumn   = errors.New("column does not exist")
	ErrDuplicateColumn = errors.New("column name already in use")
	ErrLengthMismatch  = errors.New("columns must all have the same number of rows")
	ErrKindMismatch    = errors.New("value does not match the column kind")
	ErrIndexRange      = errors.New("index out of range")
)

// Kind identifies the value type a column stores.
type Kind uint8

const (
	Int Kind = iota
	Float
	String
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	}

	return "unknown"
}

// Column is one named column of a Frame. Exactly one backing slice is
// populated, matching the column kind. The valid mask marks which rows hold
// a value; an unset entry is the missing-value (NaN) equivalent.
type Column struct {
	name       string
	kind       Kind
	ints       []int64
	floats     []float64
	strs       []string
	bools      []bool
	valid      []bool
	width      uint8 // storage width in bits, shrunk by Downcast
	unsigned   bool
	categories []string
}

// IntCol builds an integer column with every row valid.
func IntCol(name string, values ...int64) *Column {
	return &Column{name: name, kind: Int, ints: values, valid: allValid(len(values)), width: 64}
}

// FloatCol builds a float column with every row valid.
func FloatCol(name string, values ...float64) *Column {
	return &Column{name: name, kind: Float, floats: values, valid: allValid(len(values)), width: 64}
}

// StringCol builds a string column with every row valid.
func StringCol(name string, values ...string) *Column {
	return &Column{name: name, kind: String, strs: values, valid: allValid(len(values)), width: 0}
}

// BoolCol builds a boolean column with every row valid.
func BoolCol(name string, values ...bool) *Column {
	return &Column{name: name, kind: Bool, bools: values, valid: allValid(len(values)), width: 8}
}

func allValid(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}

	return valid
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.valid) }

// Width returns the storage width in bits for numeric and boolean columns.
// It is 0 for string columns.
func (c *Column) Width() uint8 { return c.width }

// Unsigned reports whether Downcast chose an unsigned storage class.
func (c *Column) Unsigned() bool { return c.unsigned }

// Categories returns the category table set by Factorize, in code order.
// It is nil for columns that were never factorized.
func (c *Column) Categories() []string { return c.categories }

// Ints returns the backing slice of an integer column. Step implementations
// may mutate it in place.
func (c *Column) Ints() []int64 { return c.ints }

// Floats returns the backing slice of a float column.
func (c *Column) Floats() []float64 { return c.floats }

// Strings returns the backing slice of a string column.
func (c *Column) Strings() []string { return c.strs }

// Bools returns the backing slice of a boolean column.
func (c *Column) Bools() []bool { return c.bools }

// IsNull reports whether the row holds no value.
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// SetNull clears the value at the given row.
func (c *Column) SetNull(i int) {
	c.valid[i] = false
	switch c.kind {
	case Int:
		c.ints[i] = 0
	case Float:
		c.floats[i] = 0
	case String:
		c.strs[i] = ""
	case Bool:
		c.bools[i] = false
	}
}

// Value returns the value at the given row, or nil when the row is null.
func (c *Column) Value(i int) any {
	if !c.valid[i] {
		return nil
	}
	switch c.kind {
	case Int:
		return c.ints[i]
	case Float:
		return c.floats[i]
	case String:
		return c.strs[i]
	case Bool:
		return c.bools[i]
	}

	return nil
}

// memoryUsage estimates the bytes the column occupies at its current
// storage width.
func (c *Column) memoryUsage() int {
	rows := c.Len()
	switch c.kind {
	case Int, Float:
		return rows * int(c.width) / 8
	case Bool:
		return rows
	case String:
		total := 0
		for _, s := range c.strs {
			total += len(s) + 16
		}

		return total
	}

	return 0
}

// equal compares logical content: name, kind, validity, values and
// categories. Storage width is ignored.
func (c *Column) equal(other *Column) bool {
	if c.name != other.name || c.kind != other.kind || c.Len() != other.Len() {
		return false
	}
	if len(c.categories) != len(other.categories) {
		return false
	}
	for i, cat := range c.categories {
		if other.categories[i] != cat {
			return false
		}
	}
	for i := range c.valid {
		if c.valid[i] != other.valid[i] {
			return false
		}
		if !c.valid[i] {
			continue
		}
		switch c.kind {
		case Int:
			if c.ints[i] != other.ints[i] {
				return false
			}
		case Float:
			if c.floats[i] != other.floats[i] {
				return false
			}
		case String:
			if c.strs[i] != other.strs[i] {
				return false
			}
		case Bool:
			if c.bools[i] != other.bools[i] {
				return false
			}
		}
	}

	return true
}

func (c *Column) clone() *Column {
	clone := &Column{
		name:     c.name,
		kind:     c.kind,
		width:    c.width,
		unsigned: c.unsigned,
	}
	clone.ints = append([]int64(nil), c.ints...)
	clone.floats = append([]float64(nil), c.floats...)
	clone.strs = append([]string(nil), c.strs...)
	clone.bools = append([]bool(nil), c.bools...)
	clone.valid = append([]bool(nil), c.valid...)
	clone.categories = append([]string(nil), c.categories...)

	return clone
}

// distinct counts the number of distinct values, with a present null
// counting as one distinct value of its own. An all-null column therefore
// counts 1, and a constant column with some nulls counts 2.
func (c *Column) distinct() int {
	seen := make(map[any]struct{}, c.Len())
	hasNull := false
	for i := range c.valid {
		if !c.valid[i] {
			hasNull = true

			continue
		}
		seen[c.Value(i)] = struct{}{}
	}
	if hasNull {
		return len(seen) + 1
	}

	return len(seen)
}

// filter keeps only the rows marked in the mask.
func (c *Column) filter(keep []bool) {
	n := 0
	for i, ok := range keep {
		if !ok {
			continue
		}
		switch c.kind {
		case Int:
			c.ints[n] = c.ints[i]
		case Float:
			c.floats[n] = c.floats[i]
		case String:
			c.strs[n] = c.strs[i]
		case Bool:
			c.bools[n] = c.bools[i]
		}
		c.valid[n] = c.valid[i]
		n++
	}
	switch c.kind {
	case Int:
		c.ints = c.ints[:n]
	case Float:
		c.floats = c.floats[:n]
	case String:
		c.strs = c.strs[:n]
	case Bool:
		c.bools = c.bools[:n]
	}
	c.valid = c.valid[:n]
}
