package auvik

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/HerbHall/tenantree/pkg/models"
)

func deviceData(id, name, devType, vendor, status, descr string) map[string]any {
	return map[string]any{
		"type": "device",
		"id":   id,
		"attributes": map[string]any{
			"ipAddresses":     []any{"10.0.0.1"},
			"deviceName":      name,
			"deviceType":      devType,
			"makeModel":       "Model-X",
			"vendorName":      vendor,
			"softwareVersion": "1.0",
			"serialNumber":    "SN" + id,
			"description":     descr,
			"firmwareVersion": "1.0",
			"onlineStatus":    status,
			"lastSeenTime":    "2026-08-30T11:22:33Z",
			"lastModified":    "2026-08-29T10:00:00Z",
		},
		"relationships": map[string]any{
			"tenant": map[string]any{
				"data": tenantData("tnt-1", "corp"),
			},
		},
	}
}

func detailData(id string) map[string]any {
	return map[string]any{
		"type": "deviceDetail",
		"id":   id,
		"attributes": map[string]any{
			"discoveryStatus": map[string]any{
				"snmp":   "authorized",
				"login":  "disabled",
				"wmi":    "disabled",
				"vmware": "disabled",
			},
			"manageStatus":          true,
			"trafficInsightsStatus": "notDetected",
		},
		"relationships": map[string]any{
			"connectedDevices": map[string]any{"data": nil},
			"interfaces":       map[string]any{"data": nil},
			"configurations":   map[string]any{"data": nil},
		},
	}
}

func warrantyData(id string) map[string]any {
	return map[string]any{
		"type": "deviceWarranty",
		"id":   id,
		"attributes": map[string]any{
			"serviceCoverageStatus":       "covered",
			"serviceAttachmentStatus":     "attached",
			"contractRenewalAvailability": "available",
			"warrantyCoverageStatus":      "covered",
			"warrantyExpirationDate":      "2027-06-30 00:00:00",
			"recommendedSoftwareVersion":  "2.0",
		},
	}
}

func lifecycleData(id string) map[string]any {
	return map[string]any{
		"type": "deviceLifecycle",
		"id":   id,
		"attributes": map[string]any{
			"salesAvailability":                 "available",
			"softwareMaintenanceStatus":         "supported",
			"securitySoftwareMaintenanceStatus": "supported",
			"lastSupportStatus":                 "supported",
		},
	}
}

// inventoryAPI is a mock of the endpoints a device retrieval touches.
type inventoryAPI struct {
	devices        []any
	networks       []any
	configs        []any
	lastTenants    string
	failWarranty   bool
	inventoryCalls int
	detailCalls    int
}

func (m *inventoryAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tenants", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, []any{tenantData("tnt-1", "corp")}, nil, nil)
	})
	mux.HandleFunc("/inventory/device/info", func(w http.ResponseWriter, r *http.Request) {
		m.inventoryCalls++
		m.lastTenants = r.URL.Query().Get("tenants")
		writeEnvelope(w, m.devices, nil, nil)
	})
	mux.HandleFunc("/inventory/network/info", func(w http.ResponseWriter, r *http.Request) {
		m.lastTenants = r.URL.Query().Get("tenants")
		writeEnvelope(w, m.networks, nil, nil)
	})
	mux.HandleFunc("/inventory/configuration/info", func(w http.ResponseWriter, r *http.Request) {
		m.lastTenants = r.URL.Query().Get("tenants")
		writeEnvelope(w, m.configs, nil, nil)
	})
	mux.HandleFunc("/inventory/device/detail/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.detailCalls++
		writeEnvelope(w, detailData(r.PathValue("id")), nil, nil)
	})
	mux.HandleFunc("/inventory/device/detail/extended/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{
			"type": "deviceExtendedDetail",
			"id":   r.PathValue("id"),
			"attributes": map[string]any{
				"cpuUtilization":    12.5,
				"memoryUtilization": 48.0,
			},
		}, nil, nil)
	})
	mux.HandleFunc("/inventory/device/warranty/{id}", func(w http.ResponseWriter, r *http.Request) {
		if m.failWarranty {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeEnvelope(w, warrantyData(r.PathValue("id")), nil, nil)
	})
	mux.HandleFunc("/inventory/device/lifecycle/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, lifecycleData(r.PathValue("id")), nil, nil)
	})
	return mux
}

func TestDevices(t *testing.T) {
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", "Cisco IOS XE Software, Version 17.3.4"),
		deviceData("dev-2", "file-srv", "server", "Dell", "online", "Linux file-srv 5.15.0"),
	}}
	c := newTestClient(t, api.handler(), nil)

	devices, err := c.Devices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
	})
	if err != nil {
		t.Fatalf("Devices error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}
	if api.lastTenants != "tnt-1" {
		t.Errorf("tenants query = %q, want tnt-1", api.lastTenants)
	}
	if devices[0].Platform != "cisco_xe" {
		t.Errorf("platform = %q, want cisco_xe", devices[0].Platform)
	}
	if devices[0].Detail != nil {
		t.Error("enrichment must not run without Details")
	}
}

func TestDevices_AllOrNothing(t *testing.T) {
	bad := deviceData("dev-2", "broken", "server", "Dell", "online", "")
	delete(bad["attributes"].(map[string]any), "deviceName")
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
		bad,
	}}
	c := newTestClient(t, api.handler(), nil)

	devices, err := c.Devices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
	})
	var serr *models.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
	if devices != nil {
		t.Error("partial results must not escape a failed bulk retrieval")
	}
}

func TestDevices_EnrichmentBestEffort(t *testing.T) {
	api := &inventoryAPI{
		devices: []any{
			deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
		},
		failWarranty: true,
	}
	c := newTestClient(t, api.handler(), nil)

	devices, err := c.Devices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Details:   true,
	})
	if err != nil {
		t.Fatalf("Devices error: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("devices = %d, want 1 (enrichment failure keeps the device)", len(devices))
	}

	d := devices[0]
	if d.Detail == nil {
		t.Error("detail section should be applied")
	}
	if d.Warranty != nil {
		t.Error("failed warranty section must be recorded absent")
	}
	if d.Lifecycle == nil {
		t.Error("lifecycle section should be applied")
	}
}

func TestNetDevices(t *testing.T) {
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
		deviceData("dev-2", "file-srv", "server", "Dell", "online", ""),
		deviceData("dev-3", "core-sw Member 2", "stack", "Cisco", "online", ""),
	}}
	c := newTestClient(t, api.handler(), nil)

	devices, err := c.NetDevices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
	})
	if err != nil {
		t.Fatalf("NetDevices error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" {
		t.Errorf("net devices = %v, want only dev-1", devices)
	}
}

func TestDevices_GlobalThenLocalFilters(t *testing.T) {
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
		deviceData("dev-2", "old-sw", "switch", "Cisco", "offline", ""),
		deviceData("dev-3", "edge-fw", "firewall", "Fortinet", "online", ""),
	}}
	c := newTestClient(t, api.handler(), func(cfg *Config) {
		cfg.DeviceFilters = "vendor=cisco"
	})

	devices, err := c.Devices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Filters:   "status=online",
	})
	if err != nil {
		t.Fatalf("Devices error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" {
		t.Errorf("filtered devices = %d, want only dev-1 (intersection of both layers)", len(devices))
	}
}

func TestDevices_MalformedLocalFilter(t *testing.T) {
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
	}}
	c := newTestClient(t, api.handler(), nil)

	_, err := c.Devices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Filters:   "vendor",
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestRawDevices(t *testing.T) {
	api := &inventoryAPI{devices: []any{
		deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
		deviceData("dev-2", "file-srv", "server", "Dell", "online", ""),
	}}
	c := newTestClient(t, api.handler(), nil)

	items, err := c.RawDevices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Filters:   "id=dev-1",
	})
	if err != nil {
		t.Fatalf("RawDevices error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("raw items = %d, want 1", len(items))
	}
	if id, _ := items[0].Field("id"); id != "dev-1" {
		t.Errorf("id = %q, want dev-1", id)
	}
}

func TestRawDevices_Details(t *testing.T) {
	api := &inventoryAPI{
		devices: []any{
			deviceData("dev-1", "core-sw", "l3Switch", "Cisco", "online", ""),
			deviceData("dev-2", "file-srv", "server", "Dell", "online", ""),
		},
		failWarranty: true,
	}
	c := newTestClient(t, api.handler(), nil)

	items, err := c.RawDevices(context.Background(), DeviceOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Details:   true,
	})
	if err != nil {
		t.Fatalf("RawDevices error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("raw items = %d, want 2", len(items))
	}
	if api.detailCalls != 2 {
		t.Errorf("detail fetches = %d, want one per device", api.detailCalls)
	}

	for _, item := range items {
		if _, ok := item["item"]; !ok {
			t.Fatalf("enriched record missing item wrapper: %v", item)
		}
		// Field reads through the wrapper, so base fields stay addressable.
		if id, ok := item.Field("id"); !ok || id == "" {
			t.Errorf("id not resolvable through wrapper: %v", item)
		}
		if _, ok := item["details"]; !ok {
			t.Error("details section should be applied")
		}
		if _, ok := item["warranty"]; ok {
			t.Error("failed warranty section must be recorded absent")
		}
		if _, ok := item["lifecycle"]; !ok {
			t.Error("lifecycle section should be applied")
		}
	}
}

func TestTenantConfigs(t *testing.T) {
	api := &inventoryAPI{configs: []any{
		map[string]any{
			"type": "configuration",
			"id":   "cfg-1",
			"attributes": map[string]any{
				"deviceId":   "dev-1",
				"backupTime": "2026-08-28T02:00:00Z",
				"isRunning":  true,
			},
		},
	}}
	c := newTestClient(t, api.handler(), nil)

	items, err := c.TenantConfigs(context.Background(), Selection{IDs: []string{"tnt-1"}})
	if err != nil {
		t.Fatalf("TenantConfigs error: %v", err)
	}
	if api.lastTenants != "tnt-1" {
		t.Errorf("tenants query = %q, want tnt-1", api.lastTenants)
	}
	if len(items) != 1 {
		t.Fatalf("configs = %d, want 1", len(items))
	}
	if id, _ := items[0].Field("id"); id != "cfg-1" {
		t.Errorf("id = %q, want cfg-1", id)
	}
}

func TestDeviceExtendedDetail(t *testing.T) {
	api := &inventoryAPI{}
	c := newTestClient(t, api.handler(), nil)

	item, err := c.DeviceExtendedDetail(context.Background(), "dev-9")
	if err != nil {
		t.Fatalf("DeviceExtendedDetail error: %v", err)
	}
	if id, _ := item.Field("id"); id != "dev-9" {
		t.Errorf("id = %q, want dev-9", id)
	}
}

func TestNetworks(t *testing.T) {
	api := &inventoryAPI{networks: []any{
		map[string]any{
			"type": "network",
			"id":   "net-1",
			"attributes": map[string]any{
				"networkType":  "vlan",
				"networkName":  "servers",
				"description":  "VLAN 20",
				"scanStatus":   "true",
				"lastModified": "2026-08-29T08:00:00Z",
			},
			"relationships": map[string]any{
				"tenant": map[string]any{"data": tenantData("tnt-1", "corp")},
			},
		},
		map[string]any{
			"type": "network",
			"id":   "net-2",
			"attributes": map[string]any{
				"networkType":  "routed",
				"networkName":  "transit",
				"description":  "",
				"scanStatus":   "false",
				"lastModified": "2026-08-29T08:00:00Z",
			},
			"relationships": map[string]any{
				"tenant": map[string]any{"data": tenantData("tnt-1", "corp")},
			},
		},
	}}
	c := newTestClient(t, api.handler(), nil)

	networks, err := c.Networks(context.Background(), NetworkOptions{
		Selection: Selection{IDs: []string{"tnt-1"}},
		Filters:   "network_type=vlan",
	})
	if err != nil {
		t.Fatalf("Networks error: %v", err)
	}
	if len(networks) != 1 || networks[0].Name != "servers" {
		t.Errorf("networks = %d, want only the vlan", len(networks))
	}
}
