package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/tenantree/pkg/sysdescr"
)

// Device is one normalized inventory device. The base record always comes
// from the bulk inventory endpoint; Detail, Warranty, and Lifecycle are
// optional enrichment sections that may each independently be absent.
type Device struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IPs          []string  `json:"ips,omitempty"`
	IP           string    `json:"ip,omitempty"`
	DeviceType   string    `json:"device_type"`
	Make         string    `json:"make,omitempty"`
	Vendor       string    `json:"vendor,omitempty"`
	Software     string    `json:"software,omitempty"`
	Firmware     string    `json:"firmware,omitempty"`
	Serial       string    `json:"serial,omitempty"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	LastSeen     time.Time `json:"last_seen"`
	LastModified time.Time `json:"last_modified"`

	// Derived from the free-text description.
	OS      string `json:"os"`
	Model   string `json:"model"`
	Version string `json:"version"`

	// Platform is the inferred network-automation platform for network
	// devices; PlatformAutodetect when the OS is unrecognized or unmapped,
	// empty for non-network devices.
	Platform string `json:"platform,omitempty"`

	Tenant Tenant `json:"tenant"`

	Detail    *DeviceDetail    `json:"detail,omitempty"`
	Warranty  *DeviceWarranty  `json:"warranty,omitempty"`
	Lifecycle *DeviceLifecycle `json:"lifecycle,omitempty"`
}

// DeviceDetail holds discovery and management enrichment for a device.
type DeviceDetail struct {
	SNMPStatus       string         `json:"snmp_status"`
	LoginStatus      string         `json:"login_status"`
	WMIStatus        string         `json:"wmi_status"`
	VMwareStatus     string         `json:"vmware_status"`
	ManageStatus     bool           `json:"manage_status"`
	NetflowStatus    string         `json:"netflow_status"`
	ConnectedDevices []string       `json:"connected_devices,omitempty"`
	Interfaces       []InterfaceMAC `json:"interfaces,omitempty"`
	ConfigBackup     bool           `json:"config_backup"`
	LastBackup       time.Time      `json:"last_backup,omitzero"`
}

// InterfaceMAC is one interface-name to MAC-address mapping.
type InterfaceMAC struct {
	Name string `json:"name"`
	MAC  string `json:"mac"`
}

// DeviceWarranty holds service-contract enrichment for a device.
type DeviceWarranty struct {
	ServiceCoverage     string `json:"service_coverage"`
	ServiceAttachment   string `json:"service_attachment"`
	ContractRenewal     string `json:"contract_renewal"`
	WarrantyCoverage    string `json:"warranty_coverage"`
	WarrantyExpiration  string `json:"warranty_expiration"`
	RecommendedSoftware string `json:"recommended_software"`
}

// DeviceLifecycle holds vendor end-of-life enrichment for a device.
type DeviceLifecycle struct {
	SalesAvailability           string `json:"sales_availability"`
	SoftwareMaintenance         string `json:"software_maintenance"`
	SecuritySoftwareMaintenance string `json:"security_software_maintenance"`
	LastSupport                 string `json:"last_support"`
}

// NewDevice builds a Device from a raw inventory resource. The resource
// type tag must be "device"; anything else is a ValidationError, not a
// best-effort skip. Required attributes that are missing surface as a
// SchemaError naming the path.
func NewDevice(res Resource) (*Device, error) {
	typ, err := res.str("type")
	if err != nil {
		return nil, err
	}
	if typ != "device" {
		return nil, NewValidationError("invalid resource type %q, want \"device\"", typ)
	}

	d := &Device{}
	if d.ID, err = res.str("id"); err != nil {
		return nil, err
	}
	if d.IPs, err = res.strSlice("attributes.ipAddresses"); err != nil {
		return nil, err
	}
	if d.Name, err = res.str("attributes.deviceName"); err != nil {
		return nil, err
	}
	if d.DeviceType, err = res.str("attributes.deviceType"); err != nil {
		return nil, err
	}
	if d.Make, err = res.str("attributes.makeModel"); err != nil {
		return nil, err
	}
	if d.Vendor, err = res.str("attributes.vendorName"); err != nil {
		return nil, err
	}
	if d.Software, err = res.str("attributes.softwareVersion"); err != nil {
		return nil, err
	}
	if d.Serial, err = res.str("attributes.serialNumber"); err != nil {
		return nil, err
	}
	if d.Description, err = res.str("attributes.description"); err != nil {
		return nil, err
	}
	if d.Firmware, err = res.str("attributes.firmwareVersion"); err != nil {
		return nil, err
	}
	if d.Status, err = res.str("attributes.onlineStatus"); err != nil {
		return nil, err
	}
	if d.LastSeen, err = res.timestamp("attributes.lastSeenTime"); err != nil {
		return nil, err
	}
	if d.LastModified, err = res.timestamp("attributes.lastModified"); err != nil {
		return nil, err
	}

	tenantRes, err := res.child("relationships.tenant.data")
	if err != nil {
		return nil, err
	}
	if d.Tenant, err = NewTenant(tenantRes); err != nil {
		return nil, err
	}

	parsed := sysdescr.Parse(d.Description)
	d.OS = parsed.OS
	d.Model = parsed.Model
	d.Version = parsed.Version

	d.resolveIP()
	d.classify()
	return d, nil
}

// resolveIP derives the canonical single IP. Unknown devices carry the
// target IP after the last "@" in their name; otherwise the first address
// in upstream order wins. The upstream list is neither sorted nor
// deduplicated, so the pick follows whatever order the API returned.
func (d *Device) resolveIP() {
	if d.IP != "" {
		return
	}
	if i := strings.LastIndex(d.Name, "@"); i >= 0 {
		d.IP = d.Name[i+1:]
		return
	}
	if len(d.IPs) > 0 {
		d.IP = d.IPs[0]
	}
}

// HasOS reports whether the description parse recognized an OS.
func (d *Device) HasOS() bool {
	return d.OS != sysdescr.Unknown
}

// PrettyName returns a short display name: "Unknown" for empty or
// address-style names, spaces replaced, and the domain suffix stripped
// from short hostnames.
func (d *Device) PrettyName() string {
	if d.Name == "" || strings.Contains(d.Name, "@") {
		return "Unknown"
	}
	name := strings.ReplaceAll(d.Name, " ", "_")
	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		if len(parts) <= 3 {
			return parts[0]
		}
	}
	return name
}

// ApplyDetail normalizes a device-detail resource onto the device. On
// error the device is left without a detail section.
func (d *Device) ApplyDetail(res Resource) error {
	det := &DeviceDetail{}
	var err error
	if det.SNMPStatus, err = res.str("attributes.discoveryStatus.snmp"); err != nil {
		return err
	}
	if det.LoginStatus, err = res.str("attributes.discoveryStatus.login"); err != nil {
		return err
	}
	if det.WMIStatus, err = res.str("attributes.discoveryStatus.wmi"); err != nil {
		return err
	}
	if det.VMwareStatus, err = res.str("attributes.discoveryStatus.vmware"); err != nil {
		return err
	}
	if det.ManageStatus, err = res.boolean("attributes.manageStatus"); err != nil {
		return err
	}
	if det.NetflowStatus, err = res.str("attributes.trafficInsightsStatus"); err != nil {
		return err
	}

	connected, err := res.children("relationships.connectedDevices.data")
	if err != nil {
		return err
	}
	for _, con := range connected {
		name, err := con.str("attributes.deviceName")
		if err != nil {
			return err
		}
		det.ConnectedDevices = append(det.ConnectedDevices, name)
	}

	ifaces, err := res.children("relationships.interfaces.data")
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		mac, err := iface.str("attributes.macAddress")
		if err != nil {
			return err
		}
		name, err := iface.str("attributes.interfaceName")
		if err != nil {
			return err
		}
		// Upstream reports missing MACs as literal null strings.
		if mac == "" || strings.EqualFold(mac, "null") {
			continue
		}
		det.Interfaces = append(det.Interfaces, InterfaceMAC{Name: name, MAC: mac})
	}

	configs, err := res.children("relationships.configurations.data")
	if err != nil {
		return err
	}
	if len(configs) >= 1 {
		if det.ConfigBackup, err = configs[0].boolean("attributes.isRunning"); err != nil {
			return err
		}
		if det.LastBackup, err = configs[0].timestamp("attributes.backupTime"); err != nil {
			return err
		}
	}

	d.Detail = det
	return nil
}

// ApplyWarranty normalizes a warranty resource onto the device.
func (d *Device) ApplyWarranty(res Resource) error {
	w := &DeviceWarranty{}
	var err error
	if w.ServiceCoverage, err = res.str("attributes.serviceCoverageStatus"); err != nil {
		return err
	}
	if w.ServiceAttachment, err = res.str("attributes.serviceAttachmentStatus"); err != nil {
		return err
	}
	if w.ContractRenewal, err = res.str("attributes.contractRenewalAvailability"); err != nil {
		return err
	}
	if w.WarrantyCoverage, err = res.str("attributes.warrantyCoverageStatus"); err != nil {
		return err
	}
	expiration, err := res.str("attributes.warrantyExpirationDate")
	if err != nil {
		return err
	}
	// Keep the date portion only; upstream appends a time of day.
	w.WarrantyExpiration, _, _ = strings.Cut(expiration, " ")
	if w.RecommendedSoftware, err = res.str("attributes.recommendedSoftwareVersion"); err != nil {
		return err
	}
	d.Warranty = w
	return nil
}

// ApplyLifecycle normalizes a lifecycle resource onto the device.
func (d *Device) ApplyLifecycle(res Resource) error {
	l := &DeviceLifecycle{}
	var err error
	if l.SalesAvailability, err = res.str("attributes.salesAvailability"); err != nil {
		return err
	}
	if l.SoftwareMaintenance, err = res.str("attributes.softwareMaintenanceStatus"); err != nil {
		return err
	}
	if l.SecuritySoftwareMaintenance, err = res.str("attributes.securitySoftwareMaintenanceStatus"); err != nil {
		return err
	}
	if l.LastSupport, err = res.str("attributes.lastSupportStatus"); err != nil {
		return err
	}
	d.Lifecycle = l
	return nil
}

// Field implements field access by name for the filter engine. Keys match
// the JSON field names of the flattened device record.
func (d *Device) Field(name string) (string, bool) {
	switch name {
	case "id":
		return d.ID, true
	case "name":
		return d.Name, true
	case "ip":
		return d.IP, true
	case "os":
		return d.OS, true
	case "model":
		return d.Model, true
	case "version":
		return d.Version, true
	case "platform":
		return d.Platform, true
	case "device_type":
		return d.DeviceType, true
	case "make":
		return d.Make, true
	case "vendor":
		return d.Vendor, true
	case "software":
		return d.Software, true
	case "firmware":
		return d.Firmware, true
	case "serial":
		return d.Serial, true
	case "description":
		return d.Description, true
	case "status":
		return d.Status, true
	case "tenant":
		return d.Tenant.Domain, true
	}
	return "", false
}

func (d *Device) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", d.Name, d.IP, d.OS, d.Platform)
}
