package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrSiteNotFound = errors.New("site not found")

// Site is one installation: the rooms reached by a single IR bridge and the
// devices recorded for them.
type Site struct {
	ID        int64
	Name      string
	Location  string
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SiteStore provides site CRUD operations.
type SiteStore interface {
	Get(ctx context.Context, id int64) (*Site, error)
	GetByName(ctx context.Context, name string) (*Site, error)
	GetActive(ctx context.Context) (*Site, error)
	List(ctx context.Context) ([]*Site, error)
	Create(ctx context.Context, s *Site) error
	Update(ctx context.Context, s *Site) error
	SetActive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// Sites returns a SiteStore for this database.
func (db *DB) Sites() SiteStore {
	return &siteStore{db: db}
}

type siteStore struct {
	db *DB
}

const siteColumns = `id, name, location, timezone, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (*Site, error) {
	s := &Site{}
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.Name, &s.Location, &s.Timezone, &s.IsActive, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSiteNotFound
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	s.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return s, nil
}

func (s *siteStore) Get(ctx context.Context, id int64) (*Site, error) {
	return scanSite(s.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ?`, id))
}

func (s *siteStore) GetByName(ctx context.Context, name string) (*Site, error) {
	return scanSite(s.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE name = ?`, name))
}

func (s *siteStore) GetActive(ctx context.Context) (*Site, error) {
	return scanSite(s.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE is_active = 1 LIMIT 1`))
}

func (s *siteStore) List(ctx context.Context) ([]*Site, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sites []*Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *siteStore) Create(ctx context.Context, site *Site) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (name, location, timezone, is_active)
		VALUES (?, ?, ?, ?)
	`, site.Name, site.Location, site.Timezone, site.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	site.ID = id
	return nil
}

func (s *siteStore) Update(ctx context.Context, site *Site) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sites SET name = ?, location = ?, timezone = ?, is_active = ?, updated_at = datetime('now')
		WHERE id = ?
	`, site.Name, site.Location, site.Timezone, site.IsActive, site.ID)
	return err
}

func (s *siteStore) SetActive(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE sites SET is_active = 0`); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `UPDATE sites SET is_active = 1 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrSiteNotFound
		}
		return nil
	})
}

func (s *siteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSiteNotFound
	}
	return nil
}
