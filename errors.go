package appsettings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks a raw value as absent from every applicable source. It is
// recoverable locally through the default fallback unless the setting is
// required. Concrete miss errors wrap this sentinel.
var ErrNotFound = errors.New("setting not found")

// notFoundError is a top-level miss: the setting's full name matched neither
// the environment channel nor the primary source.
type notFoundError struct {
	key string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s is not present in the settings source", e.key)
}

func (e *notFoundError) Unwrap() error { return ErrNotFound }

// itemMissingError is a composite miss: the parent's raw container holds no
// entry for the child's key or index.
type itemMissingError struct {
	parent string // parent setting full name
	key    string // child full name (dict) or stringified index (list)
}

func (e *itemMissingError) Error() string {
	return fmt.Sprintf("item '%s' is missing from %s", e.key, e.parent)
}

func (e *itemMissingError) Unwrap() error { return ErrNotFound }

// Failure represents a single validation failure.
type Failure struct {
	Message string
	// Params carries structured parameters (e.g. {"value": 42, "type": "int"})
	// for observability.
	Params map[string]any
}

// Failures is a collection of validation failures that implements error.
// Validators are always run to completion and their failures aggregated here,
// never short-circuited.
type Failures []Failure

// Error joins every failure message, one clause per failure.
func (fs Failures) Error() string {
	return strings.Join(fs.Messages(), "; ")
}

// Messages returns the failure messages in order.
func (fs Failures) Messages() []string {
	msgs := make([]string, 0, len(fs))
	for _, f := range fs {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// AppendFailures appends failures to the destination, initializing the slice
// when needed.
func AppendFailures(dst Failures, more ...Failure) Failures {
	if dst == nil {
		dst = Failures{}
	}
	return append(dst, more...)
}

// AsFailures extracts Failures from an error using errors.As internally.
func AsFailures(err error) (Failures, bool) {
	if err == nil {
		return nil, false
	}
	var fs Failures
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}

// failuref builds a Failure from a format string and records the given params.
func failuref(params map[string]any, format string, args ...any) Failure {
	return Failure{Message: fmt.Sprintf(format, args...), Params: params}
}

// ConfigurationError is surfaced to the caller when a required setting is
// missing or when Check aggregates one or more validation failures. It is
// never silently swallowed.
type ConfigurationError struct {
	// Setting is the fully-qualified name (upper prefix + upper name) of the
	// offending setting. Empty for group-wide sweeps.
	Setting string
	// Failures holds the aggregated validation failures, when any.
	Failures Failures

	message string
}

func (e *ConfigurationError) Error() string { return e.message }

// newRequiredError reports a required setting whose value is missing.
func newRequiredError(setting string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Setting: setting,
		message: fmt.Sprintf("%s setting is required and %s", setting, cause),
	}
}

// newRequiredItemError reports a composite setting whose raw container is
// missing a required item.
func newRequiredItemError(parent, key string) *ConfigurationError {
	return &ConfigurationError{
		Setting: parent,
		message: fmt.Sprintf("%s setting is missing required item '%s'", parent, key),
	}
}

// newInvalidError reports a setting whose raw value failed validation.
func newInvalidError(setting string, failures Failures) *ConfigurationError {
	return &ConfigurationError{
		Setting:  setting,
		Failures: failures,
		message:  fmt.Sprintf("Setting %s has an invalid value: %s", setting, failures),
	}
}

// newSweepError merges the errors collected by a group-wide check, one line
// per failed setting.
func newSweepError(errs []*ConfigurationError) *ConfigurationError {
	msgs := make([]string, 0, len(errs))
	var failures Failures
	for _, e := range errs {
		msgs = append(msgs, e.Error())
		failures = AppendFailures(failures, e.Failures...)
	}
	return &ConfigurationError{
		Failures: failures,
		message:  strings.Join(msgs, "\n"),
	}
}

// DecodeError reports an environment string that could not be decoded into
// the setting's type. It propagates uncaught through Value: a bad environment
// string is a configuration author error, not a validated-away condition.
type DecodeError struct {
	Setting string
	Input   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s setting in environ (%s)", e.Setting, e.Input)
}
