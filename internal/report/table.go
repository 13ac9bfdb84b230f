// Package report renders inventory collections as text tables.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/HerbHall/tenantree/pkg/models"
	"github.com/olekukonko/tablewriter"
)

// Devices writes one row per device. List-valued fields render as
// counts, matching the flattened view the filter engine sees.
func Devices(w io.Writer, devices []*models.Device) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "IP", "Type", "OS", "Platform", "Vendor", "Serial", "Status", "Tenant", "Last Seen"})
	for _, d := range devices {
		table.Append([]string{
			d.PrettyName(),
			d.IP,
			d.DeviceType,
			d.OS,
			d.Platform,
			d.Vendor,
			d.Serial,
			d.Status,
			d.Tenant.Domain,
			formatTime(d.LastSeen),
		})
	}
	table.Render()
}

// Networks writes one row per network.
func Networks(w io.Writer, networks []*models.Network) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Scan Status", "Devices", "Tenant", "Last Modified"})
	for _, n := range networks {
		table.Append([]string{
			n.Name,
			n.NetworkType,
			n.ScanStatus,
			strconv.Itoa(len(n.Devices)),
			n.Tenant.Domain,
			formatTime(n.LastModified),
		})
	}
	table.Render()
}

// Tenants writes one row per tenant.
func Tenants(w io.Writer, tenants []models.Tenant) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Domain", "Type"})
	for _, t := range tenants {
		table.Append([]string{t.ID, t.Domain, t.TenantType})
	}
	table.Render()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
