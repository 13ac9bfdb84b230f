package models

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing API timestamps. The
// upstream service emits RFC 3339 with sub-second precision, but older
// records have been observed without fractional seconds or offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts an API timestamp string to UTC. An empty or
// null value yields the zero time without error; anything else that does
// not match a known layout is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// timestamp extracts the string at path and parses it. Malformed values
// become a SchemaError naming the path.
func (r Resource) timestamp(path string) (time.Time, error) {
	s, err := r.str(path)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, &SchemaError{Path: path, Reason: "malformed timestamp " + s}
	}
	return t, nil
}
