package appsettings

// Iterable returns a setting for any ordered collection. It attaches no
// container type validator; WithItemType, WithMinLength and WithMaxLength
// constrain the elements. Environment strings that are not valid JSON are
// split on the delimiter (default ":"), each part passed through the item
// type converter.
func Iterable(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.decodeFn = s.decodeIterableEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a list setting. The default produces a fresh empty list and
// the raw value must be a list.
func List(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{producer: func() any { return []any{} }, call: true}
	s.validators = []Validator{TypeValidator{Type: KindList}}
	s.decodeFn = s.decodeListEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOf returns a set setting. The default produces a fresh empty Set and
// the raw value must be a Set. Delimited environment strings drop duplicate
// elements.
func SetOf(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{producer: func() any { return Set{} }, call: true}
	s.validators = []Validator{TypeValidator{Type: KindSet}}
	s.decodeFn = s.decodeSetEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TupleOf returns a tuple setting. The default produces a fresh empty Tuple
// and the raw value must be a Tuple.
func TupleOf(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{producer: func() any { return Tuple{} }, call: true}
	s.validators = []Validator{TypeValidator{Type: KindTuple}}
	s.decodeFn = s.decodeTupleEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dict returns a mapping setting. The default produces a fresh empty map and
// the raw value must be a mapping; WithKeyType/WithValueType constrain keys
// and values. Environment strings that are not valid JSON are split on the
// outer delimiter (whitespace runs by default), each item on the inner
// delimiter (default "=").
func Dict(name string, opts ...Option) *Setting {
	s := NewSetting(name)
	s.def = defaultSpec{producer: func() any { return map[string]any{} }, call: true}
	s.validators = []Validator{TypeValidator{Type: KindDict}}
	s.innerDelimiter = "="
	s.decodeFn = s.decodeDictEnviron
	for _, opt := range opts {
		opt(s)
	}
	return s
}
