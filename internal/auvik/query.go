package auvik

import (
	"context"
	"strings"

	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

// GenerateQuery resolves a tenant selection into the id query string the
// inventory endpoints expect. Precedence is strict: explicit ids, then
// explicit names, then the configured domain filters; none of the three
// is a ConfigError.
//
// Names that resolve to no tenant are dropped from the query, not
// zero-filled. Ids are deduplicated; a single surviving id is emitted
// bare, while two or more are comma-joined. The upstream API treats a
// bare value and a one-element joined list differently, so the asymmetry
// is load-bearing.
func (c *Client) GenerateQuery(ctx context.Context, names, ids []string) (string, error) {
	switch {
	case len(ids) > 0:
		// Explicit ids pass through unresolved.
	case len(names) > 0:
		var err error
		ids, err = c.resolveNames(ctx, names)
		if err != nil {
			return "", err
		}
	case len(c.domainFilters) > 0:
		var err error
		ids, err = c.resolveNames(ctx, c.domainFilters)
		if err != nil {
			return "", err
		}
	default:
		return "", models.NewConfigError("no tenant selection available")
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return "", models.NewConfigError("no tenant selection available")
	}
	if len(unique) == 1 {
		return unique[0], nil
	}
	return strings.Join(unique, ","), nil
}

// resolveNames maps tenant names to ids, dropping names with no match.
func (c *Client) resolveNames(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok, err := c.TenantIDByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.logger.Debug("tenant name resolved to nothing, dropping", zap.String("name", name))
			continue
		}
		ids = append(ids, id)
	}
	c.logger.Debug("tenant query generated", zap.Int("ids", len(ids)))
	return ids, nil
}
