package appsettings

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// environOverridePrefix shadows an environment key while its setting is
// overridden, so the primary source takes precedence until the override is
// left again.
const environOverridePrefix = "__APPSETTINGS_OVERRIDE_"

// Builder collects named setting registrations and produces an immutable
// Schema. Settings registered without a name take the registration key;
// settings without a prefix take the group prefix.
type Builder struct {
	prefix   string
	names    []string
	settings map[string]*Setting
	err      error
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithGroupPrefix sets the namespace prefix inherited by every registered
// setting that does not carry its own.
func WithGroupPrefix(prefix string) BuilderOption {
	return func(b *Builder) { b.prefix = prefix }
}

// NewBuilder returns an empty schema builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{settings: map[string]*Setting{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register adds a setting under the given registry name, back-filling the
// setting's name and prefix when blank. Registration errors are deferred to
// Build so calls can chain.
func (b *Builder) Register(name string, s *Setting) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = errors.New("appsettings: cannot register a setting under an empty name")
		return b
	}
	if _, exists := b.settings[name]; exists {
		b.err = fmt.Errorf("appsettings: setting %q registered twice", name)
		return b
	}
	if s == nil {
		b.err = fmt.Errorf("appsettings: nil setting registered under %q", name)
		return b
	}
	if s.name == "" {
		s.name = name
	}
	if s.prefix == "" {
		s.prefix = b.prefix
	}
	s.finalize()
	b.names = append(b.names, name)
	b.settings[name] = s
	return b
}

// Build produces the immutable schema, or the first registration error.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	settings := make(map[string]*Setting, len(b.settings))
	for name, s := range b.settings {
		settings[name] = s
	}
	names := make([]string, len(b.names))
	copy(names, b.names)
	return &Schema{prefix: b.prefix, names: names, settings: settings}, nil
}

// Schema is an immutable registry mapping registry names to settings.
type Schema struct {
	prefix   string
	names    []string
	settings map[string]*Setting
}

// Names returns the registry names in registration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Setting returns the descriptor registered under the name.
func (s *Schema) Setting(name string) (*Setting, bool) {
	st, ok := s.settings[name]
	return st, ok
}

// Len returns the number of registered settings.
func (s *Schema) Len() int { return len(s.settings) }

// Check runs every setting's Check against the source, collecting all
// configuration errors instead of stopping at the first, and merges them
// into one ConfigurationError. A schema without settings checks nothing.
func (s *Schema) Check(src Source) error {
	var errs []*ConfigurationError
	for _, name := range s.names {
		if err := s.settings[name].Check(src); err != nil {
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				return err
			}
			errs = append(errs, cerr)
		}
	}
	if len(errs) > 0 {
		return newSweepError(errs)
	}
	return nil
}

// Group is one consumer's view of a schema: it lazily resolves setting
// values against its source and caches them until invalidated. When a bus is
// attached the group subscribes cache invalidation and the environment
// shadow bookkeeping; Close releases both subscriptions.
type Group struct {
	schema *Schema
	source Source
	bus    *Bus
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[string]any
	subs  []*Subscription
}

// GroupOption customizes a Group.
type GroupOption func(*Group)

// WithBus subscribes the group to a change-notification bus.
func WithBus(bus *Bus) GroupOption {
	return func(g *Group) { g.bus = bus }
}

// WithLogger installs a logger on the group.
func WithLogger(logger zerolog.Logger) GroupOption {
	return func(g *Group) { g.log = logger }
}

// NewGroup instantiates a consumer of the schema. A schema with no settings
// is refused: a group only makes sense over concrete descriptors.
func NewGroup(schema *Schema, source Source, opts ...GroupOption) (*Group, error) {
	if schema == nil || schema.Len() == 0 {
		return nil, errors.New("appsettings: refusing to instantiate a group over an empty schema")
	}
	if source == nil {
		return nil, errors.New("appsettings: group needs a source")
	}
	g := &Group{
		schema: schema,
		source: source,
		log:    zerolog.Nop(),
		cache:  map[string]any{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus != nil {
		g.subs = append(g.subs,
			g.bus.Subscribe(g.onSettingChanged),
			g.bus.Subscribe(g.onEnvironShadow),
		)
	}
	return g, nil
}

// Schema returns the group's schema.
func (g *Group) Schema() *Schema { return g.schema }

// Get resolves the named setting, serving the cached value when present and
// caching the resolved value otherwise.
func (g *Group) Get(name string) (any, error) {
	st, ok := g.schema.Setting(name)
	if !ok {
		return nil, fmt.Errorf("appsettings: no setting named %q", name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.cache[name]; ok {
		return v, nil
	}
	v, err := st.Value(g.source)
	if err != nil {
		return nil, err
	}
	g.cache[name] = v
	return v, nil
}

// BoolValue resolves a setting and asserts a bool.
func (g *Group) BoolValue(name string) (bool, error) {
	v, err := g.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("appsettings: setting %q is %T, not bool", name, v)
	}
	return b, nil
}

// IntValue resolves a setting and asserts an int.
func (g *Group) IntValue(name string) (int, error) {
	v, err := g.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("appsettings: setting %q is %T, not int", name, v)
	}
	return n, nil
}

// FloatValue resolves a setting and asserts a float64.
func (g *Group) FloatValue(name string) (float64, error) {
	v, err := g.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("appsettings: setting %q is %T, not float64", name, v)
	}
	return f, nil
}

// StringValue resolves a setting and asserts a string.
func (g *Group) StringValue(name string) (string, error) {
	v, err := g.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("appsettings: setting %q is %T, not string", name, v)
	}
	return s, nil
}

// ListValue resolves a setting and asserts a []any.
func (g *Group) ListValue(name string) ([]any, error) {
	v, err := g.Get(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("appsettings: setting %q is %T, not a list", name, v)
	}
	return l, nil
}

// MapValue resolves a setting and asserts a map[string]any.
func (g *Group) MapValue(name string) (map[string]any, error) {
	v, err := g.Get(name)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("appsettings: setting %q is %T, not a map", name, v)
	}
	return m, nil
}

// TupleValue resolves a setting and asserts a Tuple.
func (g *Group) TupleValue(name string) (Tuple, error) {
	v, err := g.Get(name)
	if err != nil {
		return nil, err
	}
	t, ok := v.(Tuple)
	if !ok {
		return nil, fmt.Errorf("appsettings: setting %q is %T, not a tuple", name, v)
	}
	return t, nil
}

// Check runs the schema-wide validation sweep against the group's source.
func (g *Group) Check() error {
	err := g.schema.Check(g.source)
	if err != nil {
		g.log.Debug().Err(err).Msg("settings check failed")
	}
	return err
}

// Invalidate clears the whole value cache; the next Get re-resolves. The
// whole cache goes at once because a transform may read several keys.
func (g *Group) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = map[string]any{}
	g.log.Debug().Msg("settings cache invalidated")
}

// Close releases the group's bus subscriptions. The group stays usable but
// no longer reacts to change notifications.
func (g *Group) Close() {
	for _, sub := range g.subs {
		sub.Close()
	}
	g.subs = nil
}

func (g *Group) onSettingChanged(Change) {
	g.Invalidate()
}

// onEnvironShadow keeps the deprecated environment channel consistent with
// overrides: entering an override renames the environment key out of the
// way so the primary source wins; leaving it restores the original key. The
// bus serializes delivery, so the rename pair is atomic per signal.
func (g *Group) onEnvironShadow(c Change) {
	for _, name := range g.schema.names {
		if g.schema.settings[name].FullName() != c.Setting {
			continue
		}
		shadow := environOverridePrefix + c.Setting
		if c.Enter {
			if v, ok := os.LookupEnv(c.Setting); ok {
				os.Setenv(shadow, v)
				os.Unsetenv(c.Setting)
			}
		} else if v, ok := os.LookupEnv(shadow); ok {
			os.Setenv(c.Setting, v)
			os.Unsetenv(shadow)
		}
		break
	}
}
