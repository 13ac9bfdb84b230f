package models

// Tenant is one isolated account scope under which devices and networks
// are organized. Immutable after construction.
type Tenant struct {
	ID         string `json:"id"`
	Domain     string `json:"domain"`
	TenantType string `json:"tenant_type,omitempty"`
}

// NewTenant builds a Tenant from a raw tenant resource, or from the
// embedded tenant relationship of a device or network. The tenant type is
// optional upstream; everything else must be present.
func NewTenant(res Resource) (Tenant, error) {
	id, err := res.str("id")
	if err != nil {
		return Tenant{}, err
	}
	domain, err := res.str("attributes.domainPrefix")
	if err != nil {
		return Tenant{}, err
	}
	t := Tenant{ID: id, Domain: domain}
	if res.has("attributes.tenantType") {
		tt, err := res.str("attributes.tenantType")
		if err != nil {
			return Tenant{}, err
		}
		t.TenantType = tt
	}
	return t, nil
}

// Field implements field access by name for the filter engine.
func (t Tenant) Field(name string) (string, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "domain":
		return t.Domain, true
	case "tenant_type":
		return t.TenantType, true
	}
	return "", false
}

func (t Tenant) String() string {
	return t.Domain
}
