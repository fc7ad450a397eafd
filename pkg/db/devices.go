package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urmzd/irhome/pkg/device"
)

// Devices returns the device store for a site.
func (db *DB) Devices(siteID int64) *DeviceStore {
	return &DeviceStore{db: db, siteID: siteID}
}

// DeviceStore persists device records of one site. It implements
// device.Store.
type DeviceStore struct {
	db     *DB
	siteID int64
}

var _ device.Store = (*DeviceStore)(nil)

func (s *DeviceStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM devices WHERE site_id = ? ORDER BY id`, s.siteID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		keys = append(keys, id)
	}
	return keys, rows.Err()
}

func (s *DeviceStore) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices WHERE site_id = ? AND id = ?`, s.siteID, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *DeviceStore) Get(ctx context.Context, id string) (*device.Device, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM devices WHERE site_id = ? AND id = ?`, s.siteID, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", device.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var d device.Device
	if err := json.Unmarshal([]byte(record), &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &d, nil
}

func (s *DeviceStore) Put(ctx context.Context, id string, d *device.Device) error {
	if err := device.CheckID(id, d); err != nil {
		return err
	}
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO devices (site_id, id, profile, record)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (site_id, id) DO UPDATE SET
			profile = excluded.profile,
			record = excluded.record,
			updated_at = datetime('now')
	`, s.siteID, id, d.Profile(), string(record))
	if err != nil {
		return fmt.Errorf("failed to store device %s: %w", id, err)
	}
	return nil
}

func (s *DeviceStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM devices WHERE site_id = ? AND id = ?`, s.siteID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", device.ErrNotFound, id)
	}
	return nil
}

// CountByProfile returns how many devices of each profile the site has.
func (s *DeviceStore) CountByProfile(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT profile, COUNT(*) FROM devices WHERE site_id = ? GROUP BY profile`, s.siteID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var profile string
		var n int
		if err := rows.Scan(&profile, &n); err != nil {
			return nil, err
		}
		counts[profile] = n
	}
	return counts, rows.Err()
}

// Close is a no-op; the database is closed by its owner.
func (s *DeviceStore) Close() error {
	return nil
}
