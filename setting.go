package appsettings

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// compositeKind tells how a composite setting exposes its raw container to
// its children: keyed by the child's full name, or positionally.
type compositeKind int

const (
	compositeNone compositeKind = iota
	compositeDict
	compositeList
)

// defaultSpec is the tagged default variant: either a literal value or a
// zero-argument producer. When call is false the producer itself is returned
// as the value, which lets a group expose functions as settings.
type defaultSpec struct {
	value    any
	producer func() any
	call     bool
}

func (d defaultSpec) resolve() any {
	if d.producer != nil {
		if d.call {
			return d.producer()
		}
		return d.producer
	}
	return d.value
}

// Setting is the base descriptor for one configuration value. It holds the
// setting's identity (name, prefix), its default, required-ness, transform
// hook and ordered validator list, and implements the resolution algorithm:
// raw lookup, default fallback, transform, validation.
//
// The name and prefix are combined into the full name (upper prefix + upper
// name) used as the key in the flat configuration namespace. Both are
// back-filled at registration time when left blank.
//
// A Setting owned by a composite never reads the flat namespace directly: its
// raw lookup delegates to the parent's already-fetched raw container.
type Setting struct {
	name             string
	prefix           string
	def              defaultSpec
	required         bool
	transformDefault bool
	validators       []Validator

	// parent is a non-owning backlink set when this setting is nested under a
	// composite. Ownership stays strictly top-down: the composite owns its
	// children, children only consult the parent for raw lookups.
	parent    *Setting
	listIndex int // position under a list composite, -1 otherwise

	composite  compositeKind
	children   map[string]*Setting // compositeDict
	childNames []string            // deterministic child iteration order
	inner      *Setting            // compositeList

	// knobs consumed by subtype decoders and validators
	itemType       *Kind
	keyType        *Kind
	valueType      *Kind
	delimiter      string
	outerDelimiter string
	innerDelimiter string
	fileMode       AccessMode

	transformFn func(v any) (any, error)
	decodeFn    func(raw string) (any, error)
	validateFn  func(src Source, raw any) error // custom hook, nil by default
	valueFn     func(src Source) (any, error)   // composite override
	checkFn     func(src Source) error          // composite override
}

// NewSetting returns the base descriptor: identity transform, strict JSON
// environment decoding and no built-in validators.
func NewSetting(name string, opts ...Option) *Setting {
	s := &Setting{
		name:      name,
		listIndex: -1,
		delimiter: ":",
	}
	s.def = defaultSpec{call: true}
	s.transformFn = func(v any) (any, error) { return v, nil }
	s.decodeFn = s.decodeJSONStrict
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the bare setting name.
func (s *Setting) Name() string { return s.name }

// Prefix returns the namespace segment prepended to the name.
func (s *Setting) Prefix() string { return s.prefix }

// FullName returns the uppercase concatenation of prefix and name, the
// setting's key in the flat configuration namespace.
func (s *Setting) FullName() string {
	return strings.ToUpper(s.prefix) + strings.ToUpper(s.name)
}

// Required reports whether resolution fails when no raw value is present.
func (s *Setting) Required() bool { return s.required }

// SetRequired flips the required flag. Required and the default are the only
// fields that stay mutable after registration.
func (s *Setting) SetRequired(required bool) { s.required = required }

// SetDefault replaces the default with a literal value.
func (s *Setting) SetDefault(v any) { s.def = defaultSpec{value: v} }

// SetDefaultProducer replaces the default with a zero-argument producer.
func (s *Setting) SetDefaultProducer(fn func() any) {
	s.def = defaultSpec{producer: fn, call: true}
}

// Validators returns the ordered validator list: built-in subtype validators
// first, then instance extras, then knob-derived validators.
func (s *Setting) Validators() []Validator { return s.validators }

// finalize back-fills identity that depends on the registration key. Called
// by Builder.Register after name/prefix defaulting.
func (s *Setting) finalize() {
	if s.composite == compositeList && s.inner != nil && s.inner.name == "" {
		s.inner.name = s.name
	}
}

// RawValue looks up the setting's raw value before any transformation.
//
// Resolution order: a setting owned by a composite reads the parent's
// already-resolved raw container (keyed or positional); otherwise the
// deprecated environment channel is consulted (decoded per subtype);
// otherwise the primary source. A miss at every applicable step yields an
// error wrapping ErrNotFound.
func (s *Setting) RawValue(src Source) (any, error) {
	if s.parent != nil {
		praw, err := s.parent.RawValue(src)
		if err != nil {
			return nil, err
		}
		switch s.parent.composite {
		case compositeDict:
			v, ok := lookupKey(praw, s.FullName())
			if !ok {
				return nil, &itemMissingError{parent: s.parent.FullName(), key: s.FullName()}
			}
			return v, nil
		case compositeList:
			seq, ok := asSequence(praw)
			if !ok || s.listIndex < 0 || s.listIndex >= len(seq) {
				return nil, &itemMissingError{parent: s.parent.FullName(), key: strconv.Itoa(s.listIndex)}
			}
			return seq[s.listIndex], nil
		}
	}
	if raw, ok := os.LookupEnv(s.FullName()); ok {
		warnEnvironDeprecated(s.FullName())
		return s.decodeFn(raw)
	}
	return src.Raw(s.FullName())
}

// DefaultValue resolves the default: a producer is invoked unless call was
// disabled, a literal is returned verbatim.
func (s *Setting) DefaultValue() any { return s.def.resolve() }

// Transform converts a raw value into the value exposed to application code.
// The base descriptor applies no transformation.
func (s *Setting) Transform(v any) (any, error) { return s.transformFn(v) }

// DecodeEnviron decodes a string taken from the deprecated environment
// channel into the setting's type.
func (s *Setting) DecodeEnviron(raw string) (any, error) { return s.decodeFn(raw) }

// Value resolves the setting: raw lookup, then default fallback when absent
// and not required, with the transform applied to raw values always and to
// the default only when transform_default is enabled. It fails fast on the
// first unsatisfiable condition.
func (s *Setting) Value(src Source) (any, error) {
	if s.valueFn != nil {
		return s.valueFn(src)
	}
	return s.baseValue(src)
}

func (s *Setting) baseValue(src Source) (any, error) {
	raw, err := s.RawValue(src)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if cerr := s.missError(err); cerr != nil {
			return nil, cerr
		}
		dv := s.DefaultValue()
		if s.transformDefault {
			return s.transformFn(dv)
		}
		return dv, nil
	}
	return s.transformFn(raw)
}

// Check validates the setting's raw value. A miss is swallowed unless the
// setting is required; when a raw value is obtained the custom validate hook
// runs first, then every validator, aggregating all failures into one
// ConfigurationError naming the setting.
func (s *Setting) Check(src Source) error {
	if s.checkFn != nil {
		return s.checkFn(src)
	}
	return s.baseCheck(src)
}

func (s *Setting) baseCheck(src Source) error {
	raw, err := s.RawValue(src)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if cerr := s.missError(err); cerr != nil {
			return cerr
		}
		return nil
	}
	if s.validateFn != nil {
		if verr := s.validateFn(src, raw); verr != nil {
			fs, ok := AsFailures(verr)
			if !ok {
				return verr
			}
			return newInvalidError(s.FullName(), fs)
		}
	}
	if failures := s.runValidators(raw); len(failures) > 0 {
		return newInvalidError(s.FullName(), failures)
	}
	return nil
}

// runValidators runs the full validator list in order and aggregates every
// failure instead of stopping at the first one.
func (s *Setting) runValidators(v any) Failures {
	var fs Failures
	for _, validator := range s.validators {
		if err := validator.Validate(v); err != nil {
			if more, ok := AsFailures(err); ok {
				fs = AppendFailures(fs, more...)
			} else {
				fs = AppendFailures(fs, Failure{Message: err.Error()})
			}
		}
	}
	return fs
}

// missError maps a miss to the required-case ConfigurationError, or nil when
// the setting is not required. A composite item miss is reported through the
// parent's full name, a top-level miss through the setting's own.
func (s *Setting) missError(err error) *ConfigurationError {
	if !s.required {
		return nil
	}
	var item *itemMissingError
	if errors.As(err, &item) {
		return newRequiredItemError(item.parent, item.key)
	}
	return newRequiredError(s.FullName(), err)
}

// lookupKey fetches a key from a raw container that may be a string-keyed or
// any-keyed mapping.
func lookupKey(container any, key string) (any, bool) {
	switch m := container.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[any]any:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

// asSequence widens a raw container into an ordered []any view.
func asSequence(v any) ([]any, bool) {
	switch seq := v.(type) {
	case Tuple:
		return []any(seq), true
	case []any:
		return seq, true
	}
	return nil, false
}
