package models

import "fmt"

// ConfigError indicates the client cannot be constructed or a request
// cannot be formed from the available configuration: missing credentials,
// a missing or unreadable trust anchor, or no tenant selection.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError indicates a failed HTTP exchange: a non-success status,
// an unreachable endpoint, or a pagination chain that never terminated.
// Status is zero when no HTTP response was received.
type TransportError struct {
	Status int
	URL    string
	Reason string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s (status %d, url %s)", e.Reason, e.Status, e.URL)
	}
	return fmt.Sprintf("transport: %s (url %s)", e.Reason, e.URL)
}

// SchemaError indicates a decoded payload is missing a required field or
// carries a malformed value at the given dotted path.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s at %q", e.Reason, e.Path)
}

// ValidationError indicates caller input that cannot be accepted: a
// malformed filter specification, or a raw resource handed to the wrong
// typed constructor.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
