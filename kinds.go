package appsettings

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Set is the value type produced by set settings: an unordered collection of
// unique elements.
type Set map[any]struct{}

// NewSet builds a Set from the given elements.
func NewSet(elements ...any) Set {
	set := make(Set, len(elements))
	for _, e := range elements {
		set[e] = struct{}{}
	}
	return set
}

// Contains reports whether the element is in the set.
func (s Set) Contains(element any) bool {
	_, ok := s[element]
	return ok
}

// Tuple is the value type produced by tuple settings and nested-list
// composites: an ordered sequence treated as immutable by convention.
type Tuple []any

// Kind identifies a value type. It backs the type validators and converts
// elements of delimited environment strings.
type Kind struct {
	name  string
	is    func(any) bool
	parse func(string) (any, error)
}

// Name returns the kind's human-readable name, used in failure messages.
func (k Kind) Name() string { return k.name }

// Is reports whether the value belongs to the kind.
func (k Kind) Is(v any) bool { return k.is(v) }

// FromString converts one element of a delimited environment string. Kinds
// without a string conversion return the string unchanged.
func (k Kind) FromString(s string) (any, error) {
	if k.parse == nil {
		return s, nil
	}
	return k.parse(s)
}

var (
	// KindBool matches bool values.
	KindBool = Kind{
		name: "bool",
		is:   func(v any) bool { _, ok := v.(bool); return ok },
		parse: func(s string) (any, error) {
			b, ok := parseBoolWord(s)
			if !ok {
				return nil, fmt.Errorf("invalid boolean %q", s)
			}
			return b, nil
		},
	}

	// KindInt matches integer values of any width. Booleans and floats do
	// not qualify.
	KindInt = Kind{
		name: "int",
		is: func(v any) bool {
			switch v.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				return true
			}
			return false
		},
		parse: func(s string) (any, error) { return strconv.Atoi(s) },
	}

	// KindFloat matches floating point values. Integers do not qualify.
	KindFloat = Kind{
		name: "float",
		is: func(v any) bool {
			switch v.(type) {
			case float32, float64:
				return true
			}
			return false
		},
		parse: func(s string) (any, error) { return strconv.ParseFloat(s, 64) },
	}

	// KindString matches string values.
	KindString = Kind{
		name: "string",
		is:   func(v any) bool { _, ok := v.(string); return ok },
	}

	// KindList matches ordered mutable sequences. Tuples do not qualify.
	KindList = Kind{
		name: "list",
		is: func(v any) bool {
			if _, ok := v.(Tuple); ok {
				return false
			}
			if v == nil {
				return false
			}
			k := reflect.TypeOf(v).Kind()
			return k == reflect.Slice || k == reflect.Array
		},
	}

	// KindSet matches Set values.
	KindSet = Kind{
		name: "set",
		is:   func(v any) bool { _, ok := v.(Set); return ok },
	}

	// KindTuple matches Tuple values.
	KindTuple = Kind{
		name: "tuple",
		is:   func(v any) bool { _, ok := v.(Tuple); return ok },
	}

	// KindDict matches mappings. Sets do not qualify.
	KindDict = Kind{
		name: "dict",
		is: func(v any) bool {
			if _, ok := v.(Set); ok {
				return false
			}
			if v == nil {
				return false
			}
			return reflect.TypeOf(v).Kind() == reflect.Map
		},
	}
)

// parseBoolWord decodes the accepted boolean words, case-insensitively.
func parseBoolWord(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}

// elementsOf widens an iterable value into an ordered []any view. Sets
// enumerate in unspecified order.
func elementsOf(v any) ([]any, bool) {
	switch it := v.(type) {
	case Tuple:
		return []any(it), true
	case []any:
		return it, true
	case Set:
		out := make([]any, 0, len(it))
		for e := range it {
			out = append(out, e)
		}
		return out, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// lengthOf returns the length of a string or container value.
func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len(t), true
	case Tuple:
		return len(t), true
	case []any:
		return len(t), true
	case Set:
		return len(t), true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len(), true
	}
	return 0, false
}

// toFloat widens any numeric value to float64 for bound comparisons.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
