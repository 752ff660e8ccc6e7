package appsettings

import (
	"fmt"
	"reflect"

	"github.com/pawamoy/appsettings/internal/objectpath"
)

// ImportError reports that no prefix of an object path names a registered
// module.
type ImportError = objectpath.ImportError

// AttributeError reports a missing segment while walking an object path.
type AttributeError = objectpath.AttributeError

// RegisterObject binds an object to a dotted module path so Object and
// CallablePath settings can resolve it. Later registrations replace earlier
// ones.
func RegisterObject(path string, obj any) {
	objectpath.Register(path, obj)
}

// UnregisterObject removes an object path registration.
func UnregisterObject(path string) {
	objectpath.Unregister(path)
}

// Object returns a setting whose raw value is a dotted path resolved to a
// registered object. The default is nil; an empty or nil path transforms to
// nil; the raw value must be a string. Resolution failures surface as
// ImportError or AttributeError through Value.
func Object(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: nil}
	s.validators = []Validator{TypeValidator{Type: KindString}}
	s.decodeFn = s.decodeStringEnviron
	s.transformFn = transformObjectPath
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func transformObjectPath(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	path, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("object path must be a string, got %T", v)
	}
	if path == "" {
		return nil, nil
	}
	return objectpath.Resolve(path)
}

// CallablePath returns an Object setting whose transformed value must be
// invokable. Resolution failures during validation are reported as
// validation failures rather than raw resolution errors.
func CallablePath(name string, opts ...Option) *Setting {
	s := Object(name, opts...)
	s.validateFn = func(src Source, raw any) error {
		transformed, err := s.Value(src)
		if err != nil {
			return Failures{failuref(map[string]any{"value": raw}, "Value %v is not a callable: %s.", raw, err)}
		}
		if transformed == nil || reflect.ValueOf(transformed).Kind() != reflect.Func {
			return Failures{failuref(map[string]any{"value": transformed}, "Value %v is not a callable.", transformed)}
		}
		return nil
	}
	return s
}
