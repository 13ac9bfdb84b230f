package auvik

import (
	"context"
	"fmt"
	"strings"

	"github.com/HerbHall/tenantree/internal/filter"
	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

// Selection names the tenants a bulk operation covers. Explicit ids win
// over names; with neither, the configured domain filters apply.
type Selection struct {
	Names []string
	IDs   []string
}

// DeviceOptions controls a typed device retrieval.
type DeviceOptions struct {
	Selection
	Details bool   // fetch detail/warranty/lifecycle enrichment
	Filters string // local filter spec, applied after the global one
}

// NetworkOptions controls a typed network retrieval.
type NetworkOptions struct {
	Selection
	Filters string
}

// TenantDetail fetches the detail record for one tenant, addressed by id
// or by name. The domain defaults to the configured one.
func (c *Client) TenantDetail(ctx context.Context, domain, name, tenantID string) (models.Resource, error) {
	if domain == "" {
		domain = c.domain
	}
	if name == "" && tenantID == "" {
		return nil, models.NewConfigError("provide either name or id of the tenant")
	}
	if tenantID == "" {
		id, ok, err := c.TenantIDByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NewConfigError("no tenant matches name %q", name)
		}
		tenantID = id
	}
	return c.getOne(ctx, fmt.Sprintf("/tenants/detail/%s?tenantDomainPrefix=%s", tenantID, domain))
}

// TenantInventory fetches every raw device resource for the selection,
// following pagination to exhaustion.
func (c *Client) TenantInventory(ctx context.Context, sel Selection) ([]models.Resource, error) {
	query, err := c.GenerateQuery(ctx, sel.Names, sel.IDs)
	if err != nil {
		return nil, err
	}
	return c.getAll(ctx, "/inventory/device/info?tenants="+query)
}

// TenantNetworks fetches every raw network resource for the selection.
func (c *Client) TenantNetworks(ctx context.Context, sel Selection) ([]models.Resource, error) {
	query, err := c.GenerateQuery(ctx, sel.Names, sel.IDs)
	if err != nil {
		return nil, err
	}
	return c.getAll(ctx, "/inventory/network/info?tenants="+query)
}

// TenantConfigs fetches every raw configuration resource for the
// selection.
func (c *Client) TenantConfigs(ctx context.Context, sel Selection) ([]models.Resource, error) {
	query, err := c.GenerateQuery(ctx, sel.Names, sel.IDs)
	if err != nil {
		return nil, err
	}
	return c.getAll(ctx, "/inventory/configuration/info?tenants="+query)
}

// DeviceInfo fetches the base info record for one device, optionally
// including the detail sub-resource restricted to the given fields.
func (c *Client) DeviceInfo(ctx context.Context, deviceID string, detail bool, fields []string) (models.Resource, error) {
	url := "/inventory/device/info/" + deviceID
	if detail {
		url += "?include=deviceDetail"
		if len(fields) > 0 {
			url += "&fields[deviceDetail]=" + strings.Join(fields, ",")
		}
	}
	return c.getOne(ctx, url)
}

// DeviceDetail fetches the raw detail record for one device.
func (c *Client) DeviceDetail(ctx context.Context, deviceID string) (models.Resource, error) {
	return c.getOne(ctx, "/inventory/device/detail/"+deviceID)
}

// DeviceExtendedDetail fetches the raw extended detail record for one
// device.
func (c *Client) DeviceExtendedDetail(ctx context.Context, deviceID string) (models.Resource, error) {
	return c.getOne(ctx, "/inventory/device/detail/extended/"+deviceID)
}

// DeviceWarranty fetches the raw warranty record for one device.
func (c *Client) DeviceWarranty(ctx context.Context, deviceID string) (models.Resource, error) {
	return c.getOne(ctx, "/inventory/device/warranty/"+deviceID)
}

// DeviceLifecycle fetches the raw lifecycle record for one device.
func (c *Client) DeviceLifecycle(ctx context.Context, deviceID string) (models.Resource, error) {
	return c.getOne(ctx, "/inventory/device/lifecycle/"+deviceID)
}

// Devices retrieves and normalizes the device inventory for the
// selection. Bulk retrieval is all-or-nothing: any transport or schema
// failure on the base inventory aborts with no partial result. Only the
// optional enrichment layer degrades gracefully.
func (c *Client) Devices(ctx context.Context, opts DeviceOptions) ([]*models.Device, error) {
	items, err := c.TenantInventory(ctx, opts.Selection)
	if err != nil {
		return nil, err
	}
	c.logger.Info("processing devices", zap.Int("count", len(items)))

	devices, err := c.normalizeDevices(items)
	if err != nil {
		return nil, err
	}
	if opts.Details {
		c.enrichDevices(ctx, devices)
	}
	return c.filterDevices(devices, opts.Filters)
}

// NetDevices retrieves the network-infrastructure subset of the device
// inventory: classified network devices only, filtered like Devices.
func (c *Client) NetDevices(ctx context.Context, opts DeviceOptions) ([]*models.Device, error) {
	items, err := c.TenantInventory(ctx, opts.Selection)
	if err != nil {
		return nil, err
	}
	c.logger.Info("processing network devices", zap.Int("count", len(items)))

	all, err := c.normalizeDevices(items)
	if err != nil {
		return nil, err
	}
	netDevs := make([]*models.Device, 0, len(all))
	for _, d := range all {
		if d.IsNetDevice() {
			netDevs = append(netDevs, d)
		} else {
			c.logger.Debug("not a net device", zap.String("device", d.String()))
		}
	}
	if opts.Details {
		c.enrichDevices(ctx, netDevs)
	}
	return c.filterDevices(netDevs, opts.Filters)
}

// RawDevices retrieves the device inventory unnormalized, with the same
// two-layer filtering evaluated against the raw records. With Details
// set, each record is wrapped as {"item": ..., "details": ...,
// "warranty": ..., "lifecycle": ...}, omitting sections that could not
// be fetched.
func (c *Client) RawDevices(ctx context.Context, opts DeviceOptions) ([]models.Resource, error) {
	items, err := c.TenantInventory(ctx, opts.Selection)
	if err != nil {
		return nil, err
	}
	items = filter.Apply(c.deviceFilters, items)
	if opts.Filters != "" {
		local, err := filter.Parse(opts.Filters)
		if err != nil {
			return nil, err
		}
		items = filter.Apply(local, items)
	}
	if opts.Details {
		items = c.enrichRaw(ctx, items)
	}
	return items, nil
}

// Networks retrieves and normalizes the network inventory. Network
// normalization is all-or-nothing per call.
func (c *Client) Networks(ctx context.Context, opts NetworkOptions) ([]*models.Network, error) {
	items, err := c.TenantNetworks(ctx, opts.Selection)
	if err != nil {
		return nil, err
	}
	c.logger.Info("processing networks", zap.Int("count", len(items)))

	c.progress.Start("processing networks", len(items))
	networks := make([]*models.Network, 0, len(items))
	for _, item := range items {
		n, err := models.NewNetwork(item)
		if err != nil {
			return nil, err
		}
		networks = append(networks, n)
		recordsProcessed.WithLabelValues("network").Inc()
		c.progress.Tick()
	}
	c.progress.Done()

	if opts.Filters != "" {
		local, err := filter.Parse(opts.Filters)
		if err != nil {
			return nil, err
		}
		networks = filter.Apply(local, networks)
	}
	c.logger.Info("processed networks", zap.Int("count", len(networks)))
	return networks, nil
}

// normalizeDevices converts raw inventory items into typed devices,
// failing the whole batch on the first bad record.
func (c *Client) normalizeDevices(items []models.Resource) ([]*models.Device, error) {
	c.progress.Start("processing inventory", len(items))
	defer c.progress.Done()

	devices := make([]*models.Device, 0, len(items))
	for _, item := range items {
		d, err := models.NewDevice(item)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
		recordsProcessed.WithLabelValues("device").Inc()
		c.progress.Tick()
	}
	return devices, nil
}

// filterDevices applies the global filter first and the local filter to
// its survivors. The two layers are successive narrowing passes, never
// merged, so the result is the intersection of both.
func (c *Client) filterDevices(devices []*models.Device, local string) ([]*models.Device, error) {
	if c.deviceFilters != nil {
		c.logger.Debug("global filtering", zap.Int("count", len(devices)))
		devices = filter.Apply(c.deviceFilters, devices)
	}
	if local != "" {
		spec, err := filter.Parse(local)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("local filtering", zap.Int("count", len(devices)))
		devices = filter.Apply(spec, devices)
	}
	c.logger.Info("processed devices", zap.Int("count", len(devices)))
	return devices, nil
}
