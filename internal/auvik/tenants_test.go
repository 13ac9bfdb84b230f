package auvik

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/HerbHall/tenantree/pkg/models"
)

func TestTenants_CachedAfterFirstFetch(t *testing.T) {
	requests := 0
	c := newTestClient(t, tenantsHandler(&requests), nil)

	first, err := c.Tenants(context.Background())
	if err != nil {
		t.Fatalf("Tenants error: %v", err)
	}
	second, err := c.Tenants(context.Background())
	if err != nil {
		t.Fatalf("Tenants error: %v", err)
	}

	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second call served from cache)", requests)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Errorf("tenant counts = %d/%d, want 3/3", len(first), len(second))
	}
}

func TestTenants_ReturnsCopy(t *testing.T) {
	requests := 0
	c := newTestClient(t, tenantsHandler(&requests), nil)

	first, err := c.Tenants(context.Background())
	if err != nil {
		t.Fatalf("Tenants error: %v", err)
	}
	first[0].Domain = "mutated"

	second, _ := c.Tenants(context.Background())
	if second[0].Domain == "mutated" {
		t.Error("caller mutation leaked into the cache")
	}
}

func TestInvalidateTenants(t *testing.T) {
	requests := 0
	c := newTestClient(t, tenantsHandler(&requests), nil)

	if _, err := c.Tenants(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.InvalidateTenants()
	if _, err := c.Tenants(context.Background()); err != nil {
		t.Fatal(err)
	}

	if requests != 2 {
		t.Errorf("requests = %d, want 2 after invalidation", requests)
	}
}

func TestTenants_AllOrNothing(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, []any{
			tenantData("tnt-1", "corp"),
			map[string]any{"type": "tenant", "id": "tnt-2", "attributes": map[string]any{}},
		}, nil, nil)
	})
	c := newTestClient(t, handler, nil)

	_, err := c.Tenants(context.Background())
	var serr *models.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want SchemaError for the bad tenant", err)
	}
}

func TestTenantIDByName(t *testing.T) {
	requests := 0
	c := newTestClient(t, tenantsHandler(&requests), nil)

	id, ok, err := c.TenantIDByName(context.Background(), "branch")
	if err != nil {
		t.Fatalf("TenantIDByName error: %v", err)
	}
	if !ok || id != "tnt-3" {
		t.Errorf("id = %q ok = %v, want tnt-3 true", id, ok)
	}

	_, ok, err = c.TenantIDByName(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("TenantIDByName error: %v", err)
	}
	if ok {
		t.Error("unknown name must not resolve")
	}
}
