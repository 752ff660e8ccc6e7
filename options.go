package appsettings

// Option customizes a setting descriptor at construction time, replacing the
// keyword arguments of a dynamic settings layer with compile-time checked
// functional options.
type Option func(*Setting)

// WithDefault sets a literal default value, returned verbatim when the
// setting is absent and not required.
func WithDefault(v any) Option {
	return func(s *Setting) { s.def = defaultSpec{value: v} }
}

// WithDefaultProducer sets a zero-argument producer invoked each time the
// default is needed. Container settings use producers so every fallback gets
// a fresh empty container.
func WithDefaultProducer(fn func() any) Option {
	return func(s *Setting) { s.def = defaultSpec{producer: fn, call: true} }
}

// CallDefault controls whether a producer default is invoked. When disabled
// the producer itself becomes the setting's value.
func CallDefault(call bool) Option {
	return func(s *Setting) { s.def.call = call }
}

// TransformDefault makes the default value pass through the setting's
// transform, like raw values always do.
func TransformDefault() Option {
	return func(s *Setting) { s.transformDefault = true }
}

// Required makes resolution fail with a ConfigurationError when no raw value
// is present in any applicable source.
func Required() Option {
	return func(s *Setting) { s.required = true }
}

// WithPrefix overrides the namespace segment prepended to the setting's
// name, taking precedence over the group-level prefix.
func WithPrefix(prefix string) Option {
	return func(s *Setting) { s.prefix = prefix }
}

// WithValidators appends extra validators after the subtype's built-in ones.
func WithValidators(validators ...Validator) Option {
	return func(s *Setting) { s.validators = append(s.validators, validators...) }
}

// WithMinimum appends an inclusive lower bound check for numeric settings.
func WithMinimum(min float64) Option {
	return func(s *Setting) { s.validators = append(s.validators, MinValueValidator{Limit: min}) }
}

// WithMaximum appends an inclusive upper bound check for numeric settings.
func WithMaximum(max float64) Option {
	return func(s *Setting) { s.validators = append(s.validators, MaxValueValidator{Limit: max}) }
}

// WithMinLength appends an inclusive minimum length check for strings and
// containers.
func WithMinLength(min int) Option {
	return func(s *Setting) { s.validators = append(s.validators, MinLengthValidator{Limit: min}) }
}

// WithMaxLength appends an inclusive maximum length check for strings and
// containers.
func WithMaxLength(max int) Option {
	return func(s *Setting) { s.validators = append(s.validators, MaxLengthValidator{Limit: max}) }
}

// WithItemType declares the element type of an iterable setting. It attaches
// a ValuesTypeValidator and converts elements decoded from a delimited
// environment string.
func WithItemType(k Kind) Option {
	return func(s *Setting) {
		s.itemType = &k
		s.validators = append(s.validators, ValuesTypeValidator{Type: k})
	}
}

// WithKeyType declares the key type of a dict setting. It attaches a
// DictKeysTypeValidator and converts keys decoded from a delimited
// environment string.
func WithKeyType(k Kind) Option {
	return func(s *Setting) {
		s.keyType = &k
		s.validators = append(s.validators, DictKeysTypeValidator{Type: k})
	}
}

// WithValueType declares the value type of a dict setting. It attaches a
// DictValuesTypeValidator and converts values decoded from a delimited
// environment string.
func WithValueType(k Kind) Option {
	return func(s *Setting) {
		s.valueType = &k
		s.validators = append(s.validators, DictValuesTypeValidator{Type: k})
	}
}

// WithDelimiter changes the separator used when an iterable setting falls
// back to splitting a non-JSON environment string. Default ":".
func WithDelimiter(delim string) Option {
	return func(s *Setting) { s.delimiter = delim }
}

// WithOuterDelimiter changes the separator between items of a dict setting's
// delimited environment string. Empty means any whitespace run.
func WithOuterDelimiter(delim string) Option {
	return func(s *Setting) { s.outerDelimiter = delim }
}

// WithInnerDelimiter changes the key/value separator inside one item of a
// dict setting's delimited environment string. Default "=".
func WithInnerDelimiter(delim string) Option {
	return func(s *Setting) { s.innerDelimiter = delim }
}

// WithFileMode attaches a FileValidator requiring the given access bits on
// the file setting's path.
func WithFileMode(mode AccessMode) Option {
	return func(s *Setting) {
		s.fileMode = mode
		s.validators = append(s.validators, FileValidator{Mode: mode})
	}
}
