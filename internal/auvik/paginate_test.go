package auvik

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/HerbHall/tenantree/pkg/models"
)

func record(id string) map[string]any {
	return map[string]any{"type": "device", "id": id}
}

func ids(items []models.Resource) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item["id"].(string))
	}
	return out
}

func TestGetAll_FollowsLinksInOrder(t *testing.T) {
	requests := 0
	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "2" {
			writeEnvelope(w, []any{record("d3")}, map[string]any{"totalPages": 2}, nil)
			return
		}
		writeEnvelope(w,
			[]any{record("d1"), record("d2")},
			map[string]any{"totalPages": 2},
			map[string]string{"next": baseURL + "/things?page=2"},
		)
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	got, err := c.getAll(context.Background(), "/things")
	if err != nil {
		t.Fatalf("getAll error: %v", err)
	}
	want := []string{"d1", "d2", "d3"}
	if strings.Join(ids(got), ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
}

func TestGetAll_TotalPagesAbsentMeansSinglePage(t *testing.T) {
	requests := 0
	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		// The next link is present but must be ignored when the counter
		// is absent: the response is one complete page.
		writeEnvelope(w, []any{record("d1")}, nil,
			map[string]string{"next": baseURL + "/things?page=2"})
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	got, err := c.getAll(context.Background(), "/things")
	if err != nil {
		t.Fatalf("getAll error: %v", err)
	}
	if len(got) != 1 || requests != 1 {
		t.Errorf("records = %d, requests = %d; want 1 and 1", len(got), requests)
	}
}

func TestGetAll_StringTotalPages(t *testing.T) {
	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeEnvelope(w, []any{record("d2")}, map[string]any{"totalPages": "2"}, nil)
			return
		}
		// The counter comes back as a quoted string on some endpoints.
		writeEnvelope(w, []any{record("d1")}, map[string]any{"totalPages": "2"},
			map[string]string{"next": baseURL + "/things?page=2"})
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	got, err := c.getAll(context.Background(), "/things")
	if err != nil {
		t.Fatalf("getAll error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("records = %d, want 2", len(got))
	}
}

func TestGetAll_InconsistentCounterNeverTruncates(t *testing.T) {
	// totalPages claims 9 pages but the chain ends after 2. The links
	// chain decides termination; the counter must not pad or truncate.
	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeEnvelope(w, []any{record("d2")}, map[string]any{"totalPages": 9}, nil)
			return
		}
		writeEnvelope(w, []any{record("d1")}, map[string]any{"totalPages": 9},
			map[string]string{"next": baseURL + "/things?page=2"})
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	got, err := c.getAll(context.Background(), "/things")
	if err != nil {
		t.Fatalf("getAll error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("records = %d, want 2", len(got))
	}
}

func TestGetAll_RunawayChainFails(t *testing.T) {
	// Every page links to the next forever. The guard must cut the loop
	// with a transport error instead of spinning.
	var baseURL string
	page := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		page++
		writeEnvelope(w, []any{record(fmt.Sprintf("d%d", page))},
			map[string]any{"totalPages": 1},
			map[string]string{"next": fmt.Sprintf("%s/things?page=%d", baseURL, page+1)})
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	_, err := c.getAll(context.Background(), "/things")
	var terr *models.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if !strings.Contains(terr.Reason, "pagination did not terminate") {
		t.Errorf("reason = %q", terr.Reason)
	}
}

func TestGetAll_ContextCancellation(t *testing.T) {
	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, []any{record("d1")},
			map[string]any{"totalPages": 3},
			map[string]string{"next": baseURL + "/things?page=2"})
	})

	c := newTestClient(t, handler, nil)
	baseURL = c.baseURL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.getAll(ctx, "/things")
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("error = %v, want context cancellation", err)
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`3`, 3},
		{`"7"`, 7},
		{`null`, 0},
	}
	for _, tt := range tests {
		var f flexInt
		if err := f.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error: %v", tt.in, err)
		}
		if int(f) != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.in, f, tt.want)
		}
	}
}
