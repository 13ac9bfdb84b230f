// Package apispec loads a locally cached OpenAPI document for the
// inventory API and answers path/tag/parameter questions about it.
// Higher layers consult it for request validation; the retrieval
// pipeline itself never does.
package apispec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/HerbHall/tenantree/pkg/models"
)

// Parameter describes one operation parameter from the document.
type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"` // "query" or "path"
	Required bool   `json:"required"`
}

type operation struct {
	OperationID string      `json:"operationId"`
	Tags        []string    `json:"tags"`
	Parameters  []Parameter `json:"parameters"`
}

type pathItem struct {
	Get *operation `json:"get"`
}

type document struct {
	Servers []struct {
		URL string `json:"url"`
	} `json:"servers"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Paths map[string]pathItem `json:"paths"`
}

// Spec is a loaded OpenAPI document.
type Spec struct {
	doc document
}

// Load reads and decodes the spec document. A missing or undecodable
// file is a ConfigError.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewConfigError("reading api spec %q: %v", path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, models.NewConfigError("decoding api spec %q: %v", path, err)
	}
	return &Spec{doc: doc}, nil
}

// ServerURL returns the first advertised server URL.
func (s *Spec) ServerURL() string {
	if len(s.doc.Servers) == 0 {
		return ""
	}
	return s.doc.Servers[0].URL
}

// Paths returns every documented path, sorted.
func (s *Spec) Paths() []string {
	paths := make([]string, 0, len(s.doc.Paths))
	for p := range s.doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Tags returns every documented tag name in document order.
func (s *Spec) Tags() []string {
	tags := make([]string, 0, len(s.doc.Tags))
	for _, t := range s.doc.Tags {
		tags = append(tags, t.Name)
	}
	return tags
}

// CheckPath validates that the path is documented.
func (s *Spec) CheckPath(path string) error {
	if _, ok := s.doc.Paths[path]; !ok {
		return models.NewValidationError("invalid path: %s", path)
	}
	return nil
}

// CheckTag validates that the tag is documented.
func (s *Spec) CheckTag(tag string) error {
	for _, t := range s.doc.Tags {
		if t.Name == tag {
			return nil
		}
	}
	return models.NewValidationError("invalid tag: %s", tag)
}

// PathsByTag returns the paths whose GET operation carries the tag.
func (s *Spec) PathsByTag(tag string) ([]string, error) {
	if err := s.CheckTag(tag); err != nil {
		return nil, err
	}
	var paths []string
	for p, item := range s.doc.Paths {
		if item.Get == nil {
			continue
		}
		for _, t := range item.Get.Tags {
			if t == tag {
				paths = append(paths, p)
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// OperationID returns the GET operation id for a path.
func (s *Spec) OperationID(path string) (string, error) {
	op, err := s.getOp(path)
	if err != nil {
		return "", err
	}
	return op.OperationID, nil
}

// Params returns every GET parameter of a path.
func (s *Spec) Params(path string) ([]Parameter, error) {
	op, err := s.getOp(path)
	if err != nil {
		return nil, err
	}
	return op.Parameters, nil
}

// RequiredParams returns the required GET parameters of a path.
func (s *Spec) RequiredParams(path string) ([]Parameter, error) {
	return s.paramsWhere(path, func(p Parameter) bool { return p.Required })
}

// QueryParams returns the query-string GET parameters of a path.
func (s *Spec) QueryParams(path string) ([]Parameter, error) {
	return s.paramsWhere(path, func(p Parameter) bool { return p.In == "query" })
}

// PathParams returns the path-segment GET parameters of a path.
func (s *Spec) PathParams(path string) ([]Parameter, error) {
	return s.paramsWhere(path, func(p Parameter) bool { return p.In == "path" })
}

func (s *Spec) paramsWhere(path string, keep func(Parameter) bool) ([]Parameter, error) {
	all, err := s.Params(path)
	if err != nil {
		return nil, err
	}
	var out []Parameter
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Spec) getOp(path string) (*operation, error) {
	item, ok := s.doc.Paths[path]
	if !ok {
		return nil, models.NewValidationError("invalid path: %s", path)
	}
	if item.Get == nil {
		return nil, models.NewValidationError("path has no GET operation: %s", path)
	}
	return item.Get, nil
}

// String summarizes the document for diagnostics.
func (s *Spec) String() string {
	return fmt.Sprintf("apispec{%d paths, %d tags}", len(s.doc.Paths), len(s.doc.Tags))
}
