// Package sysdescr infers operating system, hardware model, and software
// version from the free-text system description a device reports (SNMP
// sysDescr or equivalent). Parsing is best-effort: fields that cannot be
// recognized are left at the Unknown sentinel, never an error.
package sysdescr

import (
	"regexp"
	"strings"
)

// Unknown is the sentinel returned for any field that could not be
// inferred from the description text.
const Unknown = "UNKNOWN"

// Result holds the parsed triple. Callers must treat OS == Unknown as
// "no OS information", not as an operating system named UNKNOWN.
type Result struct {
	OS      string
	Vendor  string
	Model   string
	Version string
}

// HasOS reports whether an operating system was recognized.
func (r Result) HasOS() bool {
	return r.OS != Unknown
}

// pattern matches one vendor family. The regexp may define "model" and
// "version" named groups; unset groups leave the sentinel in place.
type pattern struct {
	os     string
	vendor string
	re     *regexp.Regexp
}

// Ordering matters: more specific signatures (IOS XE before IOS, NX-OS
// before generic Cisco) must come first.
var patterns = []pattern{
	{"IOSXR", "Cisco", regexp.MustCompile(`Cisco IOS XR Software.*?(?:\((?P<model>[^)]+)\))?,?\s+Version (?P<version>[^\s,\[]+)`)},
	{"IOSXE", "Cisco", regexp.MustCompile(`Cisco IOS(?:-| )XE Software,?\s*(?:\((?P<model>[^)]+)\))?.*?Version (?P<version>[^\s,]+)`)},
	{"NXOS", "Cisco", regexp.MustCompile(`Cisco Nexus Operating System \(NX-OS\) Software.*?(?:version\s+(?P<version>[^\s,]+))?`)},
	{"ASA", "Cisco", regexp.MustCompile(`Cisco Adaptive Security Appliance(?: Software)? Version (?P<version>[^\s,]+)`)},
	{"IOS", "Cisco", regexp.MustCompile(`Cisco IOS Software.*?(?P<model>C\w+)?[^,]*Software \((?P<image>[^)]+)\), Version (?P<version>[^\s,]+)`)},
	{"IOS", "Cisco", regexp.MustCompile(`Cisco Internetwork Operating System Software.*?IOS \(tm\)\s+(?P<model>\w+)?.*?Version (?P<version>[^\s,]+)`)},
	{"JUNOS", "Juniper", regexp.MustCompile(`Juniper Networks.*?\b(?P<model>[a-zA-Z]+\d+[\w-]*)\b.*?(?:JUNOS|kernel JUNOS)\s+(?P<version>[^\s,]+)`)},
	{"JUNOS", "Juniper", regexp.MustCompile(`JUNOS\s+(?P<version>[\d][^\s,]*)`)},
	{"EOS", "Arista", regexp.MustCompile(`Arista Networks EOS.*?(?:version\s+(?P<version>[^\s,]+))?`)},
	{"PANOS", "Palo Alto Networks", regexp.MustCompile(`Palo Alto Networks\s+(?P<model>[\w-]+)\s+series firewall(?:.*?PAN-OS\s+(?P<version>[^\s,]+))?`)},
	{"FORTIOS", "Fortinet", regexp.MustCompile(`Forti[Gg]ate[-\s]*(?P<model>[\w-]+)?(?:.*?v(?P<version>[\d.]+))?`)},
	{"ARUBAOS", "Aruba", regexp.MustCompile(`ArubaOS(?:-CX)?\s*(?:\((?P<model>[^)]+)\))?,?\s*[Vv]ersion\s+(?P<version>[^\s,]+)`)},
	{"PROCURVE", "HP", regexp.MustCompile(`(?:HP|ProCurve)[\w\s]*?(?:Switch\s+)?(?P<model>J\d{4}[A-Z])(?:.*?revision\s+(?P<version>[^\s,]+))?`)},
	{"COMWARE", "HP", regexp.MustCompile(`Comware.*?[Ss]oftware,?\s*[Vv]ersion\s+(?P<version>[^\s,]+)`)},
	{"ROUTEROS", "MikroTik", regexp.MustCompile(`RouterOS\s+(?:v)?(?P<version>[\d][^\s,]*)?(?:\s+on\s+(?P<model>[\w-]+))?`)},
	{"EDGEOS", "Ubiquiti", regexp.MustCompile(`EdgeOS\s+v?(?P<version>[^\s,]+)?`)},
	{"VYOS", "VyOS", regexp.MustCompile(`VyOS\s+(?P<version>[^\s,]+)?`)},
	{"SCREENOS", "Juniper", regexp.MustCompile(`NetScreen.*?[Vv]ersion\s+(?P<version>[^\s,]+)`)},
	{"WINDOWS", "Microsoft", regexp.MustCompile(`(?:Microsoft )?Windows(?: Server)?\s*(?P<version>[\w.]+)?`)},
	{"LINUX", "", regexp.MustCompile(`Linux\s+(?:\S+\s+)?(?P<version>\d[^\s,]*)?`)},
}

// Parse scans the description text against the signature table and
// returns the best-effort triple. An empty description or one matching
// no signature yields all Unknown sentinels.
func Parse(descr string) Result {
	res := Result{OS: Unknown, Vendor: Unknown, Model: Unknown, Version: Unknown}
	descr = strings.TrimSpace(descr)
	if descr == "" {
		return res
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(descr)
		if m == nil {
			continue
		}
		res.OS = p.os
		if p.vendor != "" {
			res.Vendor = p.vendor
		}
		for i, name := range p.re.SubexpNames() {
			if i >= len(m) || m[i] == "" {
				continue
			}
			switch name {
			case "model":
				res.Model = m[i]
			case "version":
				res.Version = m[i]
			}
		}
		return res
	}
	return res
}
