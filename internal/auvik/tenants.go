package auvik

import (
	"context"
	"strings"
	"sync"

	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

// tenantCache memoizes the tenant list for the client's lifetime.
// Populated on first use, dropped by Invalidate. Never persisted.
type tenantCache struct {
	mu      sync.Mutex
	tenants []models.Tenant
	loaded  bool
}

// Tenants returns the tenants visible to the configured account,
// fetching them on first use. Tenant normalization is all-or-nothing:
// one bad tenant resource fails the whole call.
func (c *Client) Tenants(ctx context.Context) ([]models.Tenant, error) {
	c.tenants.mu.Lock()
	defer c.tenants.mu.Unlock()

	if !c.tenants.loaded {
		items, err := c.getData(ctx, "/tenants")
		if err != nil {
			return nil, err
		}
		tenants := make([]models.Tenant, 0, len(items))
		for _, item := range items {
			t, err := models.NewTenant(item)
			if err != nil {
				return nil, err
			}
			tenants = append(tenants, t)
			recordsProcessed.WithLabelValues("tenant").Inc()
		}
		c.tenants.tenants = tenants
		c.tenants.loaded = true
		c.logger.Debug("tenant list cached", zap.Int("count", len(tenants)))
	}

	out := make([]models.Tenant, len(c.tenants.tenants))
	copy(out, c.tenants.tenants)
	return out, nil
}

// InvalidateTenants drops the cached tenant list so the next call
// refetches it.
func (c *Client) InvalidateTenants() {
	c.tenants.mu.Lock()
	defer c.tenants.mu.Unlock()
	c.tenants.tenants = nil
	c.tenants.loaded = false
}

// TenantIDByName resolves a name to the id of the first tenant whose
// domain prefix contains it as a substring. Case-sensitive, first match
// wins; an ambiguous name silently resolves to whichever tenant the API
// listed first.
func (c *Client) TenantIDByName(ctx context.Context, name string) (string, bool, error) {
	tenants, err := c.Tenants(ctx)
	if err != nil {
		return "", false, err
	}
	for _, t := range tenants {
		if strings.Contains(t.Domain, name) {
			return t.ID, true, nil
		}
	}
	return "", false, nil
}
