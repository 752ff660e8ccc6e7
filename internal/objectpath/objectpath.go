// Package objectpath resolves dotted paths like "a.b.c" to registered Go
// objects. Go has no runtime import, so packages and objects are registered
// under dotted names up front; resolution finds the longest registered
// prefix by progressively shortening the module path, then walks the
// remaining segments via reflection.
package objectpath

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ImportError reports that no prefix of the path names a registered module.
type ImportError struct {
	Module string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("no module named '%s'", e.Module)
}

// AttributeError reports a missing segment while walking attributes of a
// resolved object.
type AttributeError struct {
	Object    string
	Attribute string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("'%s' object has no attribute '%s'", e.Object, e.Attribute)
}

var (
	mu       sync.RWMutex
	registry = map[string]any{}
)

// Register binds an object to a dotted module path. Later registrations
// replace earlier ones.
func Register(path string, obj any) {
	mu.Lock()
	defer mu.Unlock()
	registry[path] = obj
}

// Unregister removes a registration. Mostly useful in tests.
func Unregister(path string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, path)
}

func lookup(path string) (any, bool) {
	mu.RLock()
	defer mu.RUnlock()
	obj, ok := registry[path]
	return obj, ok
}

// Resolve turns a dotted path into the object it names. The empty path
// resolves to nil. The path may be arbitrarily deep: the longest registered
// prefix is located first (shortening one segment at a time), and each
// remaining segment is obtained from the previous object by attribute
// lookup.
func Resolve(path string) (any, error) {
	if path == "" {
		return nil, nil
	}

	modules := strings.Split(path, ".")
	var attrs []string

	var current any
	for {
		if obj, ok := lookup(strings.Join(modules, ".")); ok {
			current = obj
			break
		}
		if len(modules) == 1 {
			return nil, &ImportError{Module: modules[0]}
		}
		attrs = append([]string{modules[len(modules)-1]}, attrs...)
		modules = modules[:len(modules)-1]
	}

	for _, name := range attrs {
		next, err := attribute(current, name)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// attribute fetches one named member from an object: a map entry, an
// exported struct field, or a method.
func attribute(obj any, name string) (any, error) {
	if m, ok := obj.(map[string]any); ok {
		if v, ok := m[name]; ok {
			return v, nil
		}
		return nil, &AttributeError{Object: typeName(obj), Attribute: name}
	}

	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, &AttributeError{Object: "nil", Attribute: name}
	}
	if method := rv.MethodByName(name); method.IsValid() {
		return method.Interface(), nil
	}
	elem := rv
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, &AttributeError{Object: typeName(obj), Attribute: name}
		}
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		if field := elem.FieldByName(name); field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	}
	if elem.Kind() == reflect.Map && elem.Type().Key().Kind() == reflect.String {
		v := elem.MapIndex(reflect.ValueOf(name))
		if v.IsValid() {
			return v.Interface(), nil
		}
	}
	return nil, &AttributeError{Object: typeName(obj), Attribute: name}
}

func typeName(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "nil"
	}
	return t.String()
}
