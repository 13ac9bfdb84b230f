// Package auvik implements the inventory retrieval pipeline against a
// multi-tenant network-monitoring API: cursor pagination over the
// JSON:API envelope, normalization of raw resources into typed entities,
// device classification, and filter evaluation.
package auvik

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/HerbHall/tenantree/internal/filter"
	"github.com/HerbHall/tenantree/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the inventory API. The underlying HTTP client is
// long-lived and safe for concurrent use; one Client instance serves all
// queries of a run.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	domain        string
	user          string
	apiKey        string
	runID         string
	enrichWorkers int

	deviceFilters *filter.Spec
	domainFilters []string

	tenants  tenantCache
	progress Progress
	logger   *zap.Logger
}

// NewClient validates the configuration and builds a client. Missing
// credentials or a missing/invalid trust anchor are fatal ConfigErrors;
// there is no insecure fallback. A malformed global device filter in the
// configuration is a ValidationError.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.User == "" || cfg.APIKey == "" {
		return nil, models.NewConfigError("missing API credentials")
	}
	if cfg.CertFile == "" {
		return nil, models.NewConfigError("trust anchor certificate is required")
	}
	pem, err := os.ReadFile(cfg.CertFile)
	if err != nil {
		return nil, models.NewConfigError("reading trust anchor %q: %v", cfg.CertFile, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, models.NewConfigError("trust anchor %q contains no valid certificates", cfg.CertFile)
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = DefaultURL
	}

	var deviceFilters *filter.Spec
	if cfg.DeviceFilters != "" {
		deviceFilters, err = filter.Parse(cfg.DeviceFilters)
		if err != nil {
			return nil, fmt.Errorf("global device filters: %w", err)
		}
	}

	workers := cfg.EnrichWorkers
	if workers <= 0 {
		workers = 8
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultConfig().Timeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
					RootCAs:    pool,
				},
			},
		},
		baseURL:       strings.TrimRight(baseURL, "/"),
		domain:        cfg.Domain,
		user:          cfg.User,
		apiKey:        cfg.APIKey,
		runID:         uuid.NewString(),
		enrichWorkers: workers,
		deviceFilters: deviceFilters,
		domainFilters: cfg.DomainFilters,
		progress:      nopProgress{},
		logger:        logger,
	}
	logger.Debug("inventory client configured",
		zap.String("url", c.baseURL),
		zap.String("run_id", c.runID),
	)
	return c, nil
}

// SetProgress installs an observer that receives one tick per fetched
// page and per processed record. Purely observational, no backpressure.
func (c *Client) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	c.progress = p
}

// RunID is the correlation ID attached to every request of this client.
func (c *Client) RunID() string {
	return c.runID
}

// resolveURL prefixes the base URL unless the URL is already absolute
// against it. Pagination links come back fully qualified; caller paths
// are relative.
func (c *Client) resolveURL(url string) string {
	if strings.HasPrefix(url, c.baseURL) {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return c.baseURL + url
}

// getEnvelope performs exactly one GET and decodes the JSON:API
// envelope. A non-success status is a TransportError carrying the status
// code; retried or rate-limited access is the caller's concern.
func (c *Client) getEnvelope(ctx context.Context, url string) (*envelope, error) {
	url = c.resolveURL(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.user, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", c.runID)

	c.logger.Debug("GET", zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		transportErrors.Inc()
		return nil, &models.TransportError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transportErrors.Inc()
		return nil, &models.TransportError{
			Status: resp.StatusCode,
			URL:    url,
			Reason: "unexpected HTTP status",
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &models.SchemaError{Path: "(body)", Reason: "malformed envelope: " + err.Error()}
	}
	return &env, nil
}

// getData performs one fetch and returns the data array without
// following pagination links.
func (c *Client) getData(ctx context.Context, url string) ([]models.Resource, error) {
	env, err := c.getEnvelope(ctx, url)
	if err != nil {
		return nil, err
	}
	return env.resources()
}

// getOne performs one fetch and returns the data payload as a single
// resource.
func (c *Client) getOne(ctx context.Context, url string) (models.Resource, error) {
	env, err := c.getEnvelope(ctx, url)
	if err != nil {
		return nil, err
	}
	return env.resource()
}
