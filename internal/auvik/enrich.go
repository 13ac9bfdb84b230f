package auvik

import (
	"context"
	"sync"

	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

// section is one optional enrichment outcome: the fetched resource or
// the reason it is absent. Never both.
type section struct {
	res models.Resource
	err error
}

// deviceSections aggregates the three independent enrichment outcomes
// for one device.
type deviceSections struct {
	detail    section
	warranty  section
	lifecycle section
}

// fetchSections retrieves the detail, warranty, and lifecycle sections
// for a device concurrently. There is no ordering requirement between
// the three, and each succeeds or fails on its own.
func (c *Client) fetchSections(ctx context.Context, deviceID string) deviceSections {
	var secs deviceSections
	var wg sync.WaitGroup

	fetch := func(dst *section, url string) {
		defer wg.Done()
		dst.res, dst.err = c.getOne(ctx, url)
	}

	wg.Add(3)
	go fetch(&secs.detail, "/inventory/device/detail/"+deviceID)
	go fetch(&secs.warranty, "/inventory/device/warranty/"+deviceID)
	go fetch(&secs.lifecycle, "/inventory/device/lifecycle/"+deviceID)
	wg.Wait()

	return secs
}

// enrichDevices adds the optional sections to every device using a
// bounded worker pool. Enrichment is best-effort by design: a failed or
// malformed section is logged and recorded absent, and the base device
// is always kept. Bulk retrieval errors never originate here.
func (c *Client) enrichDevices(ctx context.Context, devices []*models.Device) {
	sem := make(chan struct{}, c.enrichWorkers)
	var wg sync.WaitGroup

	for _, d := range devices {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(d *models.Device) {
			defer wg.Done()
			defer func() { <-sem }()
			c.enrichOne(ctx, d)
		}(d)
	}

	wg.Wait()
}

// enrichRaw wraps each raw record with its optional sections, producing
// the enriched shape {"item": ..., "details": ..., "warranty": ...,
// "lifecycle": ...}. Section failures follow the same best-effort policy
// as typed enrichment: the key is left absent and the base record kept.
func (c *Client) enrichRaw(ctx context.Context, items []models.Resource) []models.Resource {
	out := make([]models.Resource, len(items))
	sem := make(chan struct{}, c.enrichWorkers)
	var wg sync.WaitGroup

	for i, item := range items {
		select {
		case <-ctx.Done():
			wg.Wait()
			for j := range out {
				if out[j] == nil {
					out[j] = models.Resource{"item": map[string]any(items[j])}
				}
			}
			return out
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, item models.Resource) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = c.enrichRawOne(ctx, item)
		}(i, item)
	}

	wg.Wait()
	return out
}

// enrichRawOne builds one enriched raw record. The base record always
// survives under "item", and field lookups on the wrapper read through
// to it.
func (c *Client) enrichRawOne(ctx context.Context, item models.Resource) models.Resource {
	wrapped := models.Resource{"item": map[string]any(item)}

	id, ok := item.Field("id")
	if !ok {
		return wrapped
	}
	secs := c.fetchSections(ctx, id)

	keep := func(name string, sec section) {
		if sec.err != nil {
			enrichFailures.WithLabelValues(name).Inc()
			c.logger.Debug("enrichment section absent",
				zap.String("device_id", id),
				zap.String("section", name),
				zap.Error(sec.err),
			)
			return
		}
		wrapped[name] = map[string]any(sec.res)
	}

	keep("details", secs.detail)
	keep("warranty", secs.warranty)
	keep("lifecycle", secs.lifecycle)
	return wrapped
}

// enrichOne fetches and applies the three sections of a single device.
func (c *Client) enrichOne(ctx context.Context, d *models.Device) {
	secs := c.fetchSections(ctx, d.ID)

	apply := func(name string, sec section, apply func(models.Resource) error) {
		err := sec.err
		if err == nil {
			err = apply(sec.res)
		}
		if err != nil {
			enrichFailures.WithLabelValues(name).Inc()
			c.logger.Debug("enrichment section absent",
				zap.String("device_id", d.ID),
				zap.String("section", name),
				zap.Error(err),
			)
		}
	}

	apply("detail", secs.detail, d.ApplyDetail)
	apply("warranty", secs.warranty, d.ApplyWarranty)
	apply("lifecycle", secs.lifecycle, d.ApplyLifecycle)
}
