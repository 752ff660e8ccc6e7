package appsettings

import (
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/sys/unix"
)

// Validator is a pure predicate over a single value. A failing validator
// returns Failures; calling it twice with the same value and unchanged
// parameters yields the same outcome.
type Validator interface {
	Validate(value any) error
}

// AccessMode is the inclusive OR of access bits required from a file path.
type AccessMode uint32

const (
	// FileExists requires the path to exist.
	FileExists AccessMode = unix.F_OK
	// FileReadable requires read permission (existence implied).
	FileReadable AccessMode = unix.R_OK
	// FileWritable requires write permission (existence implied).
	FileWritable AccessMode = unix.W_OK
	// FileExecutable requires execute permission (existence implied).
	FileExecutable AccessMode = unix.X_OK
)

// TypeValidator fails unless the value belongs to the expected kind.
type TypeValidator struct {
	Type Kind
	// Message overrides the default failure message; it receives the value
	// and the kind name as fmt arguments.
	Message string
}

// Validate implements Validator.
func (v TypeValidator) Validate(value any) error {
	if v.Type.Is(value) {
		return nil
	}
	msg := v.Message
	if msg == "" {
		msg = "Value %v is not of type %s."
	}
	return Failures{failuref(map[string]any{"value": value, "type": v.Type.Name()}, msg, value, v.Type.Name())}
}

// ValuesTypeValidator applies a type check to every element of an iterable,
// reporting the first offending element.
type ValuesTypeValidator struct {
	Type    Kind
	Message string
}

// Validate implements Validator.
func (v ValuesTypeValidator) Validate(value any) error {
	elements, ok := elementsOf(value)
	if !ok {
		return nil // not an iterable; left to the container TypeValidator
	}
	msg := v.Message
	if msg == "" {
		msg = "Element %v is not of type %s."
	}
	for _, element := range elements {
		if !v.Type.Is(element) {
			return Failures{failuref(map[string]any{"value": element, "type": v.Type.Name()}, msg, element, v.Type.Name())}
		}
	}
	return nil
}

// DictKeysTypeValidator applies a type check to every key of a mapping.
type DictKeysTypeValidator struct {
	Type    Kind
	Message string
}

// Validate implements Validator.
func (v DictKeysTypeValidator) Validate(value any) error {
	msg := v.Message
	if msg == "" {
		msg = "The key %v is not of type %s."
	}
	for _, key := range sortedMapKeys(value) {
		if !v.Type.Is(key) {
			return Failures{failuref(map[string]any{"key": key, "type": v.Type.Name()}, msg, key, v.Type.Name())}
		}
	}
	return nil
}

// DictValuesTypeValidator applies a type check to every value of a mapping;
// the failure message names the offending key.
type DictValuesTypeValidator struct {
	Type    Kind
	Message string
}

// Validate implements Validator.
func (v DictValuesTypeValidator) Validate(value any) error {
	msg := v.Message
	if msg == "" {
		msg = "Item %v's value %v is not of type %s."
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil
	}
	for _, key := range sortedMapKeys(value) {
		element := rv.MapIndex(reflect.ValueOf(key)).Interface()
		if !v.Type.Is(element) {
			params := map[string]any{"key": key, "value": element, "type": v.Type.Name()}
			return Failures{failuref(params, msg, key, element, v.Type.Name())}
		}
	}
	return nil
}

// FileValidator fails unless the filesystem path satisfies the requested
// access bits.
type FileValidator struct {
	Mode    AccessMode
	Message string
}

// Validate implements Validator.
func (v FileValidator) Validate(value any) error {
	msg := v.Message
	if msg == "" {
		msg = "Insufficient permissions for the file %v."
	}
	path, ok := value.(string)
	if !ok {
		return Failures{failuref(map[string]any{"value": value}, msg, value)}
	}
	if err := unix.Access(path, uint32(v.Mode)); err != nil {
		return Failures{failuref(map[string]any{"value": path}, msg, path)}
	}
	return nil
}

// MinValueValidator fails when a numeric value falls below the inclusive
// lower bound.
type MinValueValidator struct {
	Limit   float64
	Message string
}

// Validate implements Validator.
func (v MinValueValidator) Validate(value any) error {
	n, ok := toFloat(value)
	if !ok {
		return Failures{failuref(map[string]any{"value": value}, "Value %v is not comparable to %v.", value, v.Limit)}
	}
	if n >= v.Limit {
		return nil
	}
	msg := v.Message
	if msg == "" {
		msg = "Value %v is less than the minimum %v."
	}
	return Failures{failuref(map[string]any{"value": value, "limit": v.Limit}, msg, value, v.Limit)}
}

// MaxValueValidator fails when a numeric value exceeds the inclusive upper
// bound.
type MaxValueValidator struct {
	Limit   float64
	Message string
}

// Validate implements Validator.
func (v MaxValueValidator) Validate(value any) error {
	n, ok := toFloat(value)
	if !ok {
		return Failures{failuref(map[string]any{"value": value}, "Value %v is not comparable to %v.", value, v.Limit)}
	}
	if n <= v.Limit {
		return nil
	}
	msg := v.Message
	if msg == "" {
		msg = "Value %v is greater than the maximum %v."
	}
	return Failures{failuref(map[string]any{"value": value, "limit": v.Limit}, msg, value, v.Limit)}
}

// MinLengthValidator fails when a string or container is shorter than the
// inclusive lower bound.
type MinLengthValidator struct {
	Limit   int
	Message string
}

// Validate implements Validator.
func (v MinLengthValidator) Validate(value any) error {
	n, ok := lengthOf(value)
	if !ok {
		return nil // no length; left to the type validator
	}
	if n >= v.Limit {
		return nil
	}
	msg := v.Message
	if msg == "" {
		msg = "Length %d is less than the minimum %d."
	}
	return Failures{failuref(map[string]any{"length": n, "limit": v.Limit}, msg, n, v.Limit)}
}

// MaxLengthValidator fails when a string or container is longer than the
// inclusive upper bound.
type MaxLengthValidator struct {
	Limit   int
	Message string
}

// Validate implements Validator.
func (v MaxLengthValidator) Validate(value any) error {
	n, ok := lengthOf(value)
	if !ok {
		return nil
	}
	if n <= v.Limit {
		return nil
	}
	msg := v.Message
	if msg == "" {
		msg = "Length %d is greater than the maximum %d."
	}
	return Failures{failuref(map[string]any{"length": n, "limit": v.Limit}, msg, n, v.Limit)}
}

// sortedMapKeys returns a mapping's keys ordered by their printed form so
// that failure messages are deterministic.
func sortedMapKeys(value any) []any {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil
	}
	keys := make([]any, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.Interface())
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
