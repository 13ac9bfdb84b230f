package models

import "strings"

// PlatformAutodetect is the sentinel platform assigned to network devices
// whose OS could not be mapped to a concrete automation platform.
const PlatformAutodetect = "autodetect"

// netDeviceTypes is the fixed set of device type tags that count as
// network infrastructure (forwarding, switching, routing) rather than
// end hosts.
var netDeviceTypes = map[string]struct{}{
	"switch":          {},
	"l3Switch":        {},
	"router":          {},
	"firewall":        {},
	"bridge":          {},
	"hub":             {},
	"loadBalancer":    {},
	"packetProcessor": {},
	"chassis":         {},
	"backhaul":        {},
	"voipSwitch":      {},
	"stack":           {},
	"utm":             {},
}

// platformByOS maps a parsed OS to its automation platform. A miss is
// tolerated and leaves the autodetect sentinel in place.
var platformByOS = map[string]string{
	"IOS":      "cisco_ios",
	"IOSXE":    "cisco_xe",
	"IOSXR":    "cisco_xr",
	"NXOS":     "cisco_nxos",
	"ASA":      "cisco_asa",
	"JUNOS":    "juniper_junos",
	"SCREENOS": "juniper_screenos",
	"EOS":      "arista_eos",
	"PANOS":    "paloalto_panos",
	"FORTIOS":  "fortinet",
	"ARUBAOS":  "aruba_os",
	"PROCURVE": "hp_procurve",
	"COMWARE":  "hp_comware",
	"ROUTEROS": "mikrotik_routeros",
	"EDGEOS":   "ubiquiti_edge",
	"VYOS":     "vyos",
}

// IsNetDevice reports whether the device is network infrastructure. The
// type tag must be in the network set, and stacked cluster members
// (names carrying " Member ") are excluded even when the tag matches.
func (d *Device) IsNetDevice() bool {
	if _, ok := netDeviceTypes[d.DeviceType]; !ok {
		return false
	}
	return !strings.Contains(d.Name, " Member ")
}

// classify sets the automation platform for network devices. Non-network
// devices are left without a platform.
func (d *Device) classify() {
	if !d.IsNetDevice() {
		return
	}
	d.Platform = PlatformAutodetect
	if !d.HasOS() {
		return
	}
	if p, ok := platformByOS[d.OS]; ok {
		d.Platform = p
	}
}
