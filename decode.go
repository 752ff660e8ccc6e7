package appsettings

import (
	"strings"

	json "github.com/goccy/go-json"
)

// decodeJSON strictly decodes one JSON document, rejecting trailing input.
// Numbers stay integers when they have no fractional part so decoded values
// compare cleanly against the type validators.
func decodeJSON(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, &trailingInputError{}
	}
	return normalizeJSON(v), nil
}

type trailingInputError struct{}

func (*trailingInputError) Error() string { return "trailing input after JSON document" }

// normalizeJSON rewrites json.Number leaves into int or float64 and recurses
// into containers.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeJSON(e)
		}
		return t
	}
	return v
}

// decodeJSONStrict is the base environment decoder: a valid JSON document or
// nothing.
func (s *Setting) decodeJSONStrict(raw string) (any, error) {
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, &DecodeError{Setting: s.FullName(), Input: raw}
	}
	return v, nil
}

// decodeBoolEnviron accepts the common boolean words, case-insensitively.
func (s *Setting) decodeBoolEnviron(raw string) (any, error) {
	if b, ok := parseBoolWord(raw); ok {
		return b, nil
	}
	return nil, &DecodeError{Setting: s.FullName(), Input: raw}
}

// decodeStringEnviron tries JSON first and falls back to the literal string.
func (s *Setting) decodeStringEnviron(raw string) (any, error) {
	if v, err := decodeJSON(raw); err == nil {
		return v, nil
	}
	return raw, nil
}

// decodeIterableEnviron tries JSON first and falls back to splitting on the
// setting's delimiter, mapping each part through the item type converter.
func (s *Setting) decodeIterableEnviron(raw string) (any, error) {
	if v, err := decodeJSON(raw); err == nil {
		return v, nil
	}
	parts := strings.Split(raw, s.delimiter)
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		item, err := s.convertItem(part)
		if err != nil {
			return nil, &DecodeError{Setting: s.FullName(), Input: raw}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Setting) convertItem(part string) (any, error) {
	if s.itemType == nil {
		return part, nil
	}
	return s.itemType.FromString(part)
}

// decodeListEnviron decodes like an iterable and forces a list shape.
func (s *Setting) decodeListEnviron(raw string) (any, error) {
	v, err := s.decodeIterableEnviron(raw)
	if err != nil {
		return nil, err
	}
	elements, ok := elementsOf(v)
	if !ok {
		return nil, &DecodeError{Setting: s.FullName(), Input: raw}
	}
	return elements, nil
}

// decodeSetEnviron decodes like an iterable and collects the elements into a
// Set, dropping duplicates.
func (s *Setting) decodeSetEnviron(raw string) (any, error) {
	v, err := s.decodeIterableEnviron(raw)
	if err != nil {
		return nil, err
	}
	elements, ok := elementsOf(v)
	if !ok {
		return nil, &DecodeError{Setting: s.FullName(), Input: raw}
	}
	return NewSet(elements...), nil
}

// decodeTupleEnviron decodes like an iterable and freezes the result.
func (s *Setting) decodeTupleEnviron(raw string) (any, error) {
	v, err := s.decodeIterableEnviron(raw)
	if err != nil {
		return nil, err
	}
	elements, ok := elementsOf(v)
	if !ok {
		return nil, &DecodeError{Setting: s.FullName(), Input: raw}
	}
	return Tuple(elements), nil
}

// decodeDictEnviron tries JSON first and falls back to splitting on the
// outer delimiter (whitespace runs when unset) then the inner delimiter,
// converting keys and values through their type converters.
func (s *Setting) decodeDictEnviron(raw string) (any, error) {
	if v, err := decodeJSON(raw); err == nil {
		return v, nil
	}
	var items []string
	if s.outerDelimiter == "" {
		items = strings.Fields(raw)
	} else {
		items = strings.Split(raw, s.outerDelimiter)
	}
	out := make(map[any]any, len(items))
	for _, item := range items {
		pair := strings.SplitN(item, s.innerDelimiter, 3)
		if len(pair) != 2 {
			return nil, &DecodeError{Setting: s.FullName(), Input: raw}
		}
		key, err := convertWith(s.keyType, pair[0])
		if err != nil {
			return nil, &DecodeError{Setting: s.FullName(), Input: raw}
		}
		value, err := convertWith(s.valueType, pair[1])
		if err != nil {
			return nil, &DecodeError{Setting: s.FullName(), Input: raw}
		}
		out[key] = value
	}
	return out, nil
}

func convertWith(k *Kind, s string) (any, error) {
	if k == nil {
		return s, nil
	}
	return k.FromString(s)
}
