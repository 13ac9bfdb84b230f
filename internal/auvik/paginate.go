package auvik

import (
	"context"

	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

// minPageCap bounds the loop guard for small page counts so a slightly
// wrong totalPages cannot trip the non-termination check.
const minPageCap = 32

// getAll fetches every page of a paginated endpoint, following the next
// link until exhaustion and appending each page's data in server order.
// No reordering, no cross-page deduplication.
//
// meta.totalPages is informational: when absent the response is one
// complete page, and when present it only sizes the progress report and
// the runaway guard. Termination is decided by the links chain alone, so
// an inconsistent counter can never truncate results. The guard caps
// total fetches at a multiple of the advertised count and fails with a
// TransportError if a broken link chain never ends.
func (c *Client) getAll(ctx context.Context, url string) ([]models.Resource, error) {
	env, err := c.getEnvelope(ctx, url)
	if err != nil {
		return nil, err
	}
	data, err := env.resources()
	if err != nil {
		return nil, err
	}
	pagesFetched.Inc()

	if env.Meta == nil || env.Meta.TotalPages == nil {
		c.logger.Debug("single page response", zap.Int("records", len(data)))
		return data, nil
	}

	total := int(*env.Meta.TotalPages)
	pagesLeft := total - 1
	c.logger.Debug("paginating", zap.Int("total_pages", total), zap.Int("pages_left", pagesLeft))

	c.progress.Start("gathering inventory", pagesLeft)
	defer c.progress.Done()

	maxFetches := 10 * total
	if maxFetches < minPageCap {
		maxFetches = minPageCap
	}

	fetches := 0
	for {
		next, ok := env.next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fetches++
		if fetches > maxFetches {
			return nil, &models.TransportError{URL: next, Reason: "pagination did not terminate"}
		}

		env, err = c.getEnvelope(ctx, next)
		if err != nil {
			return nil, err
		}
		page, err := env.resources()
		if err != nil {
			return nil, err
		}
		data = append(data, page...)
		pagesFetched.Inc()
		c.progress.Tick()
	}

	return data, nil
}
