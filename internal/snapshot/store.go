// Package snapshot persists one inventory run to a SQLite file for
// offline reporting. It is a write-only export sink: the retrieval
// pipeline never reads snapshots back.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/HerbHall/tenantree/pkg/models"
)

// Store writes inventory snapshots to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at the given path and
// applies recommended pragmas.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tenants (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			id          TEXT NOT NULL,
			domain      TEXT NOT NULL,
			tenant_type TEXT,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS devices (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			id          TEXT NOT NULL,
			name        TEXT,
			ip          TEXT,
			device_type TEXT,
			os          TEXT,
			model       TEXT,
			version     TEXT,
			platform    TEXT,
			vendor      TEXT,
			serial      TEXT,
			status      TEXT,
			tenant      TEXT,
			last_seen   TEXT,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS networks (
			run_id        TEXT NOT NULL REFERENCES runs(id),
			id            TEXT NOT NULL,
			name          TEXT,
			network_type  TEXT,
			scan_status   TEXT,
			device_count  INTEGER,
			tenant        TEXT,
			last_modified TEXT,
			PRIMARY KEY (run_id, id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// BeginRun records a run row; all subsequent saves reference it.
func (s *Store) BeginRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at) VALUES (?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// SaveTenants writes the tenant list for a run.
func (s *Store) SaveTenants(ctx context.Context, runID string, tenants []models.Tenant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tenants {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO tenants (run_id, id, domain, tenant_type) VALUES (?, ?, ?, ?)`,
			runID, t.ID, t.Domain, t.TenantType,
		); err != nil {
			return fmt.Errorf("insert tenant %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SaveDevices writes the device list for a run.
func (s *Store) SaveDevices(ctx context.Context, runID string, devices []*models.Device) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, d := range devices {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO devices
			 (run_id, id, name, ip, device_type, os, model, version, platform, vendor, serial, status, tenant, last_seen)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, d.ID, d.Name, d.IP, d.DeviceType, d.OS, d.Model, d.Version,
			d.Platform, d.Vendor, d.Serial, d.Status, d.Tenant.Domain,
			formatTime(d.LastSeen),
		); err != nil {
			return fmt.Errorf("insert device %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// SaveNetworks writes the network list for a run.
func (s *Store) SaveNetworks(ctx context.Context, runID string, networks []*models.Network) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, n := range networks {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO networks
			 (run_id, id, name, network_type, scan_status, device_count, tenant, last_modified)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, n.ID, n.Name, n.NetworkType, n.ScanStatus, len(n.Devices),
			n.Tenant.Domain, formatTime(n.LastModified),
		); err != nil {
			return fmt.Errorf("insert network %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
