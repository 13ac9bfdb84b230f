package auvik

import "github.com/prometheus/client_golang/prometheus"

// Pipeline metrics.
var (
	pagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenantree_pages_fetched_total",
			Help: "Total number of inventory pages fetched.",
		},
	)
	recordsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantree_records_processed_total",
			Help: "Total number of records normalized, by kind.",
		},
		[]string{"kind"},
	)
	transportErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenantree_transport_errors_total",
			Help: "Total number of failed HTTP exchanges.",
		},
	)
	enrichFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantree_enrichment_failures_total",
			Help: "Total number of enrichment sections recorded absent, by section.",
		},
		[]string{"section"},
	)
)

func init() {
	prometheus.MustRegister(pagesFetched)
	prometheus.MustRegister(recordsProcessed)
	prometheus.MustRegister(transportErrors)
	prometheus.MustRegister(enrichFailures)
}
