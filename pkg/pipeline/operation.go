package pipeline

import "math"

// Kind identifies the accepted type of a named argument.
type Kind uint8

const (
	// KindAny accepts any value.
	KindAny Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	// KindSeq accepts a sequence of values.
	KindSeq
	// KindMap accepts a nested string-keyed mapping.
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "mapping"
	}

	return "any"
}

// Param declares one named argument accepted by an operation. Declared
// parameters let the pipeline validate a step setting's arguments at
// resolution time instead of failing inside the operation.
type Param struct {
	Name     string
	Kind     Kind
	Required bool
}

// Operation is one named capability of a pipeline: a declared parameter
// list plus the function invoked with the owning pipeline and the validated
// arguments.
type Operation struct {
	Params []Param
	Do     func(p *Pipeline, args Args) error
}

// Registry maps operation names to operations. It is the capability set
// step settings are resolved against; merging extra operations into a copy
// of FrameRegistry is the usual way to build one.
type Registry map[string]Operation

// Args carries the named arguments of one step.
type Args map[string]any

// Value returns the raw argument value.
func (a Args) Value(name string) (any, bool) {
	v, ok := a[name]

	return v, ok
}

// Int returns an integer argument. Integral floats are accepted, matching
// what YAML parsers may produce.
func (a Args) Int(name string) (int, bool) {
	switch v := a[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}

	return 0, false
}

// Float returns a float argument; integers are widened.
func (a Args) Float(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}

	return 0, false
}

// String returns a string argument.
func (a Args) String(name string) (string, bool) {
	v, ok := a[name].(string)

	return v, ok
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) (bool, bool) {
	v, ok := a[name].(bool)

	return v, ok
}

// Strings returns a string-sequence argument. A bare string is treated as a
// one-element sequence, so settings may say `column: x` or `column: [x, y]`.
func (a Args) Strings(name string) ([]string, bool) {
	switch v := a[name].(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}

		return out, true
	}

	return nil, false
}

func kindMatches(v any, kind Kind) bool {
	switch kind {
	case KindAny:
		return true
	case KindInt:
		switch v.(type) {
		case int, int64:
			return true
		}
	case KindFloat:
		switch v.(type) {
		case float64, int, int64:
			return true
		}
	case KindString:
		_, ok := v.(string)

		return ok
	case KindBool:
		_, ok := v.(bool)

		return ok
	case KindSeq:
		switch v.(type) {
		case []any, []string, []int, []int64, []float64:
			return true
		}
	case KindMap:
		switch v.(type) {
		case map[string]any, map[any]any, Args:
			return true
		}
	}

	return false
}
