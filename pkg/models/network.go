package models

import (
	"fmt"
	"time"
)

// Network is one normalized inventory network. Normalization is
// all-or-nothing: a partially extracted network is never returned.
type Network struct {
	ID           string          `json:"id"`
	NetworkType  string          `json:"network_type"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	ScanStatus   string          `json:"scan_status"`
	LastModified time.Time       `json:"last_modified"`
	Tenant       Tenant          `json:"tenant"`
	Devices      []NetworkMember `json:"devices,omitempty"`
}

// NetworkMember is one member-device summary on a network.
type NetworkMember struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// NewNetwork builds a Network from a raw network resource. The member
// device relationship is optional; everything else must be present.
func NewNetwork(res Resource) (*Network, error) {
	n := &Network{}
	var err error
	if n.ID, err = res.str("id"); err != nil {
		return nil, err
	}
	if n.NetworkType, err = res.str("attributes.networkType"); err != nil {
		return nil, err
	}
	if n.Name, err = res.str("attributes.networkName"); err != nil {
		return nil, err
	}
	if n.Description, err = res.str("attributes.description"); err != nil {
		return nil, err
	}
	if n.ScanStatus, err = res.str("attributes.scanStatus"); err != nil {
		return nil, err
	}
	if n.LastModified, err = res.timestamp("attributes.lastModified"); err != nil {
		return nil, err
	}

	tenantRes, err := res.child("relationships.tenant.data")
	if err != nil {
		return nil, err
	}
	if n.Tenant, err = NewTenant(tenantRes); err != nil {
		return nil, err
	}

	if res.has("relationships.devices.data") {
		members, err := res.children("relationships.devices.data")
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			name, err := m.str("attributes.deviceName")
			if err != nil {
				return nil, err
			}
			id, err := m.str("id")
			if err != nil {
				return nil, err
			}
			n.Devices = append(n.Devices, NetworkMember{Name: name, ID: id})
		}
	}
	return n, nil
}

// Field implements field access by name for the filter engine.
func (n *Network) Field(name string) (string, bool) {
	switch name {
	case "id":
		return n.ID, true
	case "name":
		return n.Name, true
	case "network_type":
		return n.NetworkType, true
	case "description":
		return n.Description, true
	case "scan_status":
		return n.ScanStatus, true
	case "tenant":
		return n.Tenant.Domain, true
	}
	return "", false
}

func (n *Network) String() string {
	return fmt.Sprintf("%s:%s:%d devices", n.Name, n.NetworkType, len(n.Devices))
}
