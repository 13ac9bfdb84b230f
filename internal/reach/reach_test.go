package reach

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/tenantree/pkg/models"
	"go.uber.org/zap"
)

func TestTargets(t *testing.T) {
	devices := []*models.Device{
		{ID: "dev-1", IP: "10.0.0.1"},
		{ID: "dev-2"},
		{ID: "dev-3", IP: "10.0.0.3"},
	}

	got := Targets(devices)
	if len(got) != 2 {
		t.Fatalf("targets = %d, want 2", len(got))
	}
	if got["dev-1"] != "10.0.0.1" || got["dev-3"] != "10.0.0.3" {
		t.Errorf("targets = %v", got)
	}
	if _, ok := got["dev-2"]; ok {
		t.Error("device without an IP must be skipped")
	}
}

func TestNewProber_Defaults(t *testing.T) {
	p := NewProber(Config{}, zap.NewNop())
	if p.pingTimeout != 2*time.Second {
		t.Errorf("pingTimeout = %v, want 2s", p.pingTimeout)
	}
	if p.pingCount != 3 {
		t.Errorf("pingCount = %d, want 3", p.pingCount)
	}
	if p.concurrency != 16 {
		t.Errorf("concurrency = %d, want 16", p.concurrency)
	}
}

func TestNewProber_ConfigOverrides(t *testing.T) {
	p := NewProber(Config{
		PingTimeout: time.Second,
		PingCount:   1,
		Concurrency: 4,
	}, zap.NewNop())
	if p.pingTimeout != time.Second || p.pingCount != 1 || p.concurrency != 4 {
		t.Errorf("prober = %+v", p)
	}
}

func TestProbe_NoTargets(t *testing.T) {
	p := NewProber(Config{}, zap.NewNop())
	results := p.Probe(context.Background(), []*models.Device{{ID: "dev-1"}})
	if len(results) != 0 {
		t.Errorf("results = %v, want none for devices without IPs", results)
	}
}
