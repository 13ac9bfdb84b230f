package models

import (
	"fmt"
	"strings"
)

// Resource is one raw JSON:API resource object as decoded from the wire:
// a map with "id", "type", and nested "attributes"/"relationships"
// sections. Typed constructors extract from it with dotted paths so a
// missing required field surfaces as a SchemaError naming the path
// instead of a silent zero value.
type Resource map[string]any

// Field implements field access by name for the filter engine. Only
// top-level string values participate; an "item" wrapper (as produced by
// enriched raw records) is unwrapped first.
func (r Resource) Field(name string) (string, bool) {
	m := map[string]any(r)
	if inner, ok := m["item"].(map[string]any); ok {
		m = inner
	}
	v, ok := m[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return s, true
}

// lookup walks a dotted path through nested maps. The final segment's
// value is returned as-is; any missing or non-map intermediate is a
// SchemaError naming the full path.
func (r Resource) lookup(path string) (any, error) {
	cur := any(map[string]any(r))
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, &SchemaError{Path: path, Reason: "required field missing"}
		}
		cur, ok = m[seg]
		if !ok {
			return nil, &SchemaError{Path: path, Reason: "required field missing"}
		}
	}
	return cur, nil
}

// str returns the string at path. A JSON null is returned as "".
func (r Resource) str(path string) (string, error) {
	v, err := r.lookup(path)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", &SchemaError{Path: path, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
}

// boolean returns the bool at path. A JSON null is returned as false.
func (r Resource) boolean(path string) (bool, error) {
	v, err := r.lookup(path)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, &SchemaError{Path: path, Reason: fmt.Sprintf("expected bool, got %T", v)}
	}
}

// strSlice returns the list of strings at path. A JSON null is an empty
// list; non-string elements are a SchemaError.
func (r Resource) strSlice(path string) ([]string, error) {
	v, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("expected array, got %T", v)}
	}
	out := make([]string, 0, len(raw))
	for i, el := range raw {
		s, ok := el.(string)
		if !ok {
			return nil, &SchemaError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected string, got %T", el)}
		}
		out = append(out, s)
	}
	return out, nil
}

// child returns the nested object at path as a Resource.
func (r Resource) child(path string) (Resource, error) {
	v, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("expected object, got %T", v)}
	}
	return Resource(m), nil
}

// children returns the array of nested objects at path. A JSON null is an
// empty list.
func (r Resource) children(path string) ([]Resource, error) {
	v, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("expected array, got %T", v)}
	}
	out := make([]Resource, 0, len(raw))
	for i, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, &SchemaError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected object, got %T", el)}
		}
		out = append(out, Resource(m))
	}
	return out, nil
}

// has reports whether the dotted path resolves to any value.
func (r Resource) has(path string) bool {
	_, err := r.lookup(path)
	return err == nil
}
