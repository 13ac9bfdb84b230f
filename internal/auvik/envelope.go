package auvik

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/HerbHall/tenantree/pkg/models"
)

// envelope is the JSON:API wire wrapper: a data payload (resource array
// or single resource), optional pagination metadata, and optional
// pagination links.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Meta  *meta             `json:"meta,omitempty"`
	Links map[string]string `json:"links,omitempty"`
}

// meta carries pagination metadata. TotalPages is informational only: the
// pagination loop is driven by the links chain, never by this counter.
type meta struct {
	TotalPages *flexInt `json:"totalPages,omitempty"`
}

// flexInt decodes an integer that the API serializes either as a JSON
// number or as a quoted string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// next returns the next-page link, if any.
func (e *envelope) next() (string, bool) {
	url, ok := e.Links["next"]
	return url, ok && url != ""
}

// resources decodes the data payload as a resource array. A single
// resource object is wrapped into a one-element slice; a null payload is
// an empty slice.
func (e *envelope) resources() ([]models.Resource, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var many []models.Resource
	if err := json.Unmarshal(e.Data, &many); err == nil {
		return many, nil
	}
	one, err := e.resource()
	if err != nil {
		return nil, err
	}
	return []models.Resource{one}, nil
}

// resource decodes the data payload as a single resource object.
func (e *envelope) resource() (models.Resource, error) {
	var one models.Resource
	if err := json.Unmarshal(e.Data, &one); err != nil {
		return nil, &models.SchemaError{Path: "data", Reason: "malformed resource payload"}
	}
	return one, nil
}
