// Package reach verifies that resolved device IPs answer ICMP. It is an
// optional post-retrieval check: results annotate the report and never
// feed back into retrieval.
package reach

import (
	"context"
	"runtime"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"

	"github.com/HerbHall/tenantree/pkg/models"
)

// Config holds the prober settings.
type Config struct {
	Enabled     bool          `mapstructure:"enabled"`
	PingTimeout time.Duration `mapstructure:"ping_timeout"` // Per-host timeout (default: 2s)
	PingCount   int           `mapstructure:"ping_count"`   // Echo requests per host (default: 3)
	Concurrency int           `mapstructure:"concurrency"`  // Hosts probed at once (default: 16)
}

// Result is the probe outcome for one device.
type Result struct {
	IP    string
	Alive bool
	RTT   time.Duration
}

// Prober pings device IPs with bounded concurrency.
type Prober struct {
	pingTimeout time.Duration
	pingCount   int
	concurrency int
	logger      *zap.Logger
}

// NewProber creates a prober from configuration, falling back to sane
// defaults for zero values.
func NewProber(cfg Config, logger *zap.Logger) *Prober {
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = 2 * time.Second
	}
	if cfg.PingCount == 0 {
		cfg.PingCount = 3
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 16
	}
	return &Prober{
		pingTimeout: cfg.PingTimeout,
		pingCount:   cfg.PingCount,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// Probe pings the resolved IP of every device and returns the outcomes
// keyed by device ID. Devices without a resolved IP are skipped.
func (p *Prober) Probe(ctx context.Context, devices []*models.Device) map[string]Result {
	targets := Targets(devices)
	p.logger.Info("probing device reachability",
		zap.Int("targets", len(targets)),
		zap.Int("concurrency", p.concurrency),
	)

	var mu sync.Mutex
	results := make(map[string]Result, len(targets))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	// ICMP sockets need privileged mode on Windows.
	privileged := runtime.GOOS == "windows"

	for id, ip := range targets {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(id, ip string) {
			defer wg.Done()
			defer func() { <-sem }()

			alive, rtt := p.pingHost(ctx, ip, privileged)
			mu.Lock()
			results[id] = Result{IP: ip, Alive: alive, RTT: rtt}
			mu.Unlock()
		}(id, ip)
	}

	wg.Wait()
	return results
}

// Targets maps device IDs to their resolved probe IPs, skipping devices
// without one.
func Targets(devices []*models.Device) map[string]string {
	targets := make(map[string]string, len(devices))
	for _, d := range devices {
		if d.IP == "" {
			continue
		}
		targets[d.ID] = d.IP
	}
	return targets
}

func (p *Prober) pingHost(ctx context.Context, ip string, privileged bool) (alive bool, rtt time.Duration) {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		p.logger.Debug("failed to create pinger", zap.String("ip", ip), zap.Error(err))
		return false, 0
	}

	pinger.Count = p.pingCount
	pinger.Timeout = p.pingTimeout
	pinger.SetPrivileged(privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		p.logger.Debug("ping failed", zap.String("ip", ip), zap.Error(err))
		return false, 0
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return false, 0
	}
	return true, stats.AvgRtt
}
