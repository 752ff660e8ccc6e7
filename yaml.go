package appsettings

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// YAMLSource is a Source backed by one YAML document. Top-level keys are
// uppercased to form the flat namespace; values keep their decoded types, so
// nested mappings and sequences serve as raw containers for composite
// settings.
type YAMLSource struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// LoadYAML reads a YAML file into a source.
func LoadYAML(path string) (*YAMLSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	s := &YAMLSource{path: abs}
	if _, err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Raw implements Source.
func (s *YAMLSource) Raw(key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return nil, &notFoundError{key: key}
}

// Keys returns the loaded keys. Order is unspecified.
func (s *YAMLSource) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Path returns the watched file path.
func (s *YAMLSource) Path() string { return s.path }

// reload re-reads the file and returns the keys whose values changed,
// appeared or disappeared.
func (s *YAMLSource) reload() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	next := make(map[string]any, len(doc))
	for k, v := range doc {
		next[strings.ToUpper(k)] = v
	}

	s.mu.Lock()
	prev := s.values
	s.values = next
	s.mu.Unlock()

	var changed []string
	for k, v := range next {
		if old, ok := prev[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = append(changed, k)
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			changed = append(changed, k)
		}
	}
	return changed, nil
}

// WatchedSource wraps a YAMLSource with a file watcher: when the file is
// rewritten the source reloads and publishes one change per affected key on
// the bus, which in turn invalidates subscribed group caches.
type WatchedSource struct {
	*YAMLSource

	bus     *Bus
	log     zerolog.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// WatchOption customizes a WatchedSource.
type WatchOption func(*WatchedSource)

// WithWatchLogger installs a logger on the watched source.
func WithWatchLogger(logger zerolog.Logger) WatchOption {
	return func(w *WatchedSource) { w.log = logger }
}

// WatchYAML loads a YAML source and starts watching its file for changes.
// Stop must be called to release the watcher.
func WatchYAML(path string, bus *Bus, opts ...WatchOption) (*WatchedSource, error) {
	src, err := LoadYAML(path)
	if err != nil {
		return nil, err
	}
	w := &WatchedSource{
		YAMLSource: src,
		bus:        bus,
		log:        zerolog.Nop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory; editors doing atomic saves replace the file.
	if err := watcher.Add(filepath.Dir(src.Path())); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = watcher

	go w.watchLoop()

	w.log.Info().Str("path", src.Path()).Msg("watching settings file for changes")
	return w, nil
}

// Stop stops watching the file.
func (w *WatchedSource) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *WatchedSource) watchLoop() {
	filename := filepath.Base(w.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.log.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("settings file changed")
				w.republish()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("settings file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// republish reloads the file and broadcasts every changed key. The change
// enters an override so the primary source takes precedence over any stale
// environment value for the same key.
func (w *WatchedSource) republish() {
	changed, err := w.reload()
	if err != nil {
		w.log.Error().Err(err).Msg("settings reload failed, keeping old values")
		return
	}
	w.log.Info().Int("changed", len(changed)).Msg("settings file reloaded")
	if w.bus == nil {
		return
	}
	for _, key := range changed {
		w.bus.Publish(key, true)
	}
}
