package appsettings

// Bool returns a boolean setting. The default is true and the raw value must
// be a bool. Environment strings accept the common boolean words (true/yes/1,
// false/no/0, case-insensitive).
func Bool(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: true}
	s.validators = []Validator{TypeValidator{Type: KindBool}}
	s.decodeFn = s.decodeBoolEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Int returns an integer setting. The default is 0 and the raw value must be
// an integer; WithMinimum/WithMaximum attach inclusive bounds.
func Int(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: 0}
	s.validators = []Validator{TypeValidator{Type: KindInt}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PositiveInt returns an integer setting whose minimum is forced to 0.
func PositiveInt(name string, opts ...Option) *Setting {
	s := Int(name)
	s.validators = append(s.validators, MinValueValidator{Limit: 0})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Float returns a floating point setting. The default is 0.0 and the raw
// value must be a float; integers are rejected by the type validator.
func Float(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: 0.0}
	s.validators = []Validator{TypeValidator{Type: KindFloat}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PositiveFloat returns a float setting whose minimum is forced to 0.
func PositiveFloat(name string, opts ...Option) *Setting {
	s := Float(name)
	s.validators = append(s.validators, MinValueValidator{Limit: 0})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String returns a string setting. The default is "" and the raw value must
// be a string; WithMinLength/WithMaxLength attach inclusive length bounds.
// Environment strings fall back to the literal string when they are not
// valid JSON.
func String(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{value: ""}
	s.validators = []Validator{TypeValidator{Type: KindString}}
	s.decodeFn = s.decodeStringEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}
