package appsettings

import (
	"errors"
	"fmt"
	"sort"
)

// NestedDict returns a composite setting assembled from named child
// settings. The children never read the flat namespace directly: their raw
// lookups go through the composite's already-fetched raw container, keyed by
// each child's full name. Children left unnamed take their map key as name.
//
// When the composite's own raw lookup succeeds, Value resolves every child
// independently and returns a map keyed by child name; children absent from
// the raw container fall back to their own defaults. The deprecated
// environment channel is never consulted for children.
func NestedDict(children map[string]*Setting, name string, opts ...Option) *Setting {
	s := Dict(name, opts...)
	s.composite = compositeDict
	s.children = make(map[string]*Setting, len(children))
	s.childNames = make([]string, 0, len(children))
	for key, child := range children {
		if child.name == "" {
			child.name = key
		}
		child.parent = s
		s.children[key] = child
		s.childNames = append(s.childNames, key)
	}
	sort.Strings(s.childNames)

	s.valueFn = func(src Source) (any, error) {
		if _, err := s.RawValue(src); err != nil {
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
		out := make(map[string]any, len(s.children))
		for _, key := range s.childNames {
			v, err := s.children[key].Value(src)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	}

	s.checkFn = func(src Source) error {
		if err := s.baseCheck(src); err != nil {
			return err
		}
		raw, err := s.RawValue(src)
		if err != nil || raw == nil {
			return nil
		}
		var failures Failures
		for _, key := range s.childNames {
			if cerr := s.children[key].Check(src); cerr != nil {
				failures = AppendFailures(failures, checkFailure(cerr))
			}
		}
		if len(failures) > 0 {
			return newInvalidError(s.FullName(), failures)
		}
		return nil
	}

	return s
}

// NestedList returns a composite setting applying one inner setting template
// positionally to every element of a raw sequence. Value returns an ordered,
// immutable Tuple of the inner setting's resolved values; order is preserved
// and duplicates allowed. The inner setting may itself be a composite,
// allowing arbitrary nesting.
func NestedList(inner *Setting, name string, opts ...Option) *Setting {
	s := Iterable(name, opts...)
	s.composite = compositeList
	if inner.name == "" {
		inner.name = s.name
	}
	inner.parent = s
	s.inner = inner

	// transform maps the inner transform over each element; used when the
	// default passes through the transform.
	s.transformFn = func(v any) (any, error) {
		seq, ok := asSequence(v)
		if !ok {
			return nil, fmt.Errorf("setting %s expects a sequence, got %T", s.FullName(), v)
		}
		out := make(Tuple, 0, len(seq))
		for _, item := range seq {
			t, err := inner.transformFn(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}

	s.valueFn = func(src Source) (any, error) {
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
		seq, ok := asSequence(raw)
		if !ok {
			return nil, fmt.Errorf("setting %s expects a sequence, got %T", s.FullName(), raw)
		}
		out := make(Tuple, 0, len(seq))
		for index := range seq {
			s.inner.listIndex = index
			v, err := s.inner.Value(src)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	s.checkFn = func(src Source) error {
		if err := s.baseCheck(src); err != nil {
			return err
		}
		raw, err := s.RawValue(src)
		if err != nil {
			return nil
		}
		seq, ok := asSequence(raw)
		if !ok {
			return nil // shape already reported by the setting's own validators
		}
		var failures Failures
		for index := range seq {
			s.inner.listIndex = index
			if cerr := s.inner.Check(src); cerr != nil {
				failures = AppendFailures(failures, checkFailure(cerr))
			}
		}
		if len(failures) > 0 {
			return newInvalidError(s.FullName(), failures)
		}
		return nil
	}

	return s
}

// checkFailure folds a child's check error into one aggregatable failure.
func checkFailure(err error) Failure {
	var cerr *ConfigurationError
	if errors.As(err, &cerr) {
		return Failure{Message: cerr.Error(), Params: map[string]any{"setting": cerr.Setting}}
	}
	return Failure{Message: err.Error()}
}
