package model

import "fmt"

// ConfigError describes an invalid selector or parameter detected while
// building a Specification.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func newConfigError(field, value, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
