package auvik

import "time"

// DefaultURL is the API endpoint used when none is configured.
const DefaultURL = "https://auvikapi.us1.my.auvik.com/v1"

// Config holds the inventory client configuration.
type Config struct {
	URL           string        `mapstructure:"url"`            // API base URL
	Domain        string        `mapstructure:"domain"`         // Default tenant domain prefix
	User          string        `mapstructure:"user"`           // API username
	APIKey        string        `mapstructure:"key"`            // API secret key
	CertFile      string        `mapstructure:"cert_file"`      // PEM trust anchor, mandatory
	Timeout       time.Duration `mapstructure:"timeout"`        // Per-request timeout (default: 30s)
	DeviceFilters string        `mapstructure:"device_filters"` // Global device filter spec, "k=v,k2=v2"
	DomainFilters []string      `mapstructure:"domain_filters"` // Fallback tenant selection by name
	EnrichWorkers int           `mapstructure:"enrich_workers"` // Concurrent device enrichments (default: 8)
}

// DefaultConfig returns a Config with sensible defaults. Credentials and
// the trust anchor have no defaults; the client refuses to start without
// them.
func DefaultConfig() Config {
	return Config{
		URL:           DefaultURL,
		Timeout:       30 * time.Second,
		EnrichWorkers: 8,
	}
}
