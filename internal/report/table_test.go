package report

import (
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/tenantree/pkg/models"
)

func TestDevices(t *testing.T) {
	var buf strings.Builder
	Devices(&buf, []*models.Device{
		{
			Name:       "core-sw-01",
			IP:         "10.1.0.5",
			DeviceType: "l3Switch",
			OS:         "IOSXE",
			Platform:   "cisco_xe",
			Vendor:     "Cisco",
			Serial:     "FCW1234X0AB",
			Status:     "online",
			Tenant:     models.Tenant{Domain: "corp"},
			LastSeen:   time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
		},
	})

	out := buf.String()
	for _, want := range []string{"NAME", "core-sw-01", "cisco_xe", "corp", "2026-08-30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNetworks(t *testing.T) {
	var buf strings.Builder
	Networks(&buf, []*models.Network{
		{
			Name:        "servers",
			NetworkType: "vlan",
			ScanStatus:  "true",
			Devices:     []models.NetworkMember{{Name: "core-sw-01", ID: "dev-1"}},
			Tenant:      models.Tenant{Domain: "corp"},
		},
	})

	out := buf.String()
	for _, want := range []string{"servers", "vlan", "1", "corp"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTenants(t *testing.T) {
	var buf strings.Builder
	Tenants(&buf, []models.Tenant{
		{ID: "tnt-1", Domain: "corp", TenantType: "client"},
	})

	out := buf.String()
	for _, want := range []string{"tnt-1", "corp", "client"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDevices_EmptyStillRendersHeader(t *testing.T) {
	var buf strings.Builder
	Devices(&buf, nil)
	if !strings.Contains(buf.String(), "NAME") {
		t.Errorf("header missing:\n%s", buf.String())
	}
}
