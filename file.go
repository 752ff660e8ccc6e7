package appsettings

import (
	"fmt"
	"path/filepath"
)

// File returns a setting whose raw value is a filesystem path. The default
// is nil and the transform cleans the path; WithFileMode attaches an access
// check (existence, read, write, execute).
func File(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: nil}
	s.decodeFn = s.decodeStringEnviron
	s.transformFn = transformFilePath
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func transformFilePath(v any) (any, error) {
	path, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("file setting value must be a string, got %T", v)
	}
	return filepath.Clean(path), nil
}
