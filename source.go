package appsettings

import (
	"sync"

	"github.com/rs/zerolog"
)

// Source is the primary configuration collaborator: a flat mapping from
// uppercase key strings to arbitrary typed values, queried by exact key. The
// library never writes to it.
type Source interface {
	// Raw returns the value stored under the key, or an error wrapping
	// ErrNotFound when the key is absent.
	Raw(key string) (any, error)
}

// MapSource is an in-process Source backed by a plain map. Handy for tests
// and for embedding settings in code.
type MapSource map[string]any

// Raw implements Source.
func (m MapSource) Raw(key string) (any, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return nil, &notFoundError{key: key}
}

var pkgLog = struct {
	mu     sync.RWMutex
	logger zerolog.Logger
}{logger: zerolog.Nop()}

// SetLogger installs the package logger used for deprecation warnings when a
// setting value is loaded from the environment. The default logger discards
// everything.
func SetLogger(logger zerolog.Logger) {
	pkgLog.mu.Lock()
	defer pkgLog.mu.Unlock()
	pkgLog.logger = logger
}

func warnEnvironDeprecated(key string) {
	pkgLog.mu.RLock()
	logger := pkgLog.logger
	pkgLog.mu.RUnlock()
	logger.Warn().Str("setting", key).Msg("loading setting values from the environment is deprecated")
}
