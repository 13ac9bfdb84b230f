// Package filter parses user filter specifications of the form
// "key1=value1,key2=value2" and evaluates them against records that
// expose field access by name. Predicates are AND-composed: one failing
// predicate rejects the record.
package filter

import (
	"strings"

	"github.com/HerbHall/tenantree/pkg/models"
)

// Record is anything that can resolve a field name to its string value.
// Both raw resources and typed entities implement it.
type Record interface {
	Field(name string) (string, bool)
}

// Predicate is one key=value clause. Matching is a case-insensitive
// substring test of Value against the record's field.
type Predicate struct {
	Key   string
	Value string
}

// Spec is an ordered set of predicates. The zero Spec matches everything;
// it can only be obtained via New -- a malformed specification string is a
// hard error, never an empty filter.
type Spec struct {
	preds []Predicate
}

// New builds a Spec from already-parsed predicates.
func New(preds []Predicate) *Spec {
	return &Spec{preds: preds}
}

// Parse builds a Spec from a comma-separated specification string. Any
// clause without "=" is a ValidationError.
func Parse(spec string) (*Spec, error) {
	var preds []Predicate
	for _, clause := range strings.Split(spec, ",") {
		key, value, ok := strings.Cut(clause, "=")
		if !ok {
			return nil, models.NewValidationError("invalid filter clause %q", clause)
		}
		preds = append(preds, Predicate{Key: key, Value: value})
	}
	return &Spec{preds: preds}, nil
}

// Predicates returns the parsed clauses in specification order.
func (s *Spec) Predicates() []Predicate {
	return s.preds
}

// Match reports whether the record satisfies every predicate. A missing
// or empty field fails its predicate.
func (s *Spec) Match(r Record) bool {
	for _, p := range s.preds {
		v, ok := r.Field(p.Key)
		if !ok || v == "" {
			return false
		}
		if !strings.Contains(strings.ToLower(v), strings.ToLower(p.Value)) {
			return false
		}
	}
	return true
}

// Apply returns the records matching the spec, preserving order. A nil
// spec keeps everything.
func Apply[T Record](s *Spec, records []T) []T {
	if s == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if s.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
