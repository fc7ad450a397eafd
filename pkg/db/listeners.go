package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

var ErrListenerNotFound = errors.New("listener not found")

// Listener is the address the REST API of a site binds to.
type Listener struct {
	SiteID    int64
	Host      string
	Port      int
	UpdatedAt time.Time
}

// Address returns host:port.
func (l *Listener) Address() string {
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

// ParseListener splits a host:port address into a Listener for siteID.
func ParseListener(siteID int64, addr string) (*Listener, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("listen address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("listen address %q: invalid port", addr)
	}
	return &Listener{SiteID: siteID, Host: host, Port: p}, nil
}

// ListenerStore reads and writes the per-site listen address.
type ListenerStore interface {
	Get(ctx context.Context, siteID int64) (*Listener, error)
	// Set creates or replaces the listener of l.SiteID.
	Set(ctx context.Context, l *Listener) error
}

// Listeners returns a ListenerStore for this database.
func (db *DB) Listeners() ListenerStore {
	return &listenerStore{db: db}
}

type listenerStore struct {
	db *DB
}

func (s *listenerStore) Get(ctx context.Context, siteID int64) (*Listener, error) {
	l := &Listener{SiteID: siteID}
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT host, port, updated_at FROM listeners WHERE site_id = ?`, siteID,
	).Scan(&l.Host, &l.Port, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListenerNotFound
	}
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return l, nil
}

func (s *listenerStore) Set(ctx context.Context, l *Listener) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listeners (site_id, host, port) VALUES (?, ?, ?)
		ON CONFLICT (site_id) DO UPDATE
		SET host = excluded.host, port = excluded.port, updated_at = datetime('now')
	`, l.SiteID, l.Host, l.Port)
	if err != nil {
		return fmt.Errorf("set listener for site %d: %w", l.SiteID, err)
	}
	return nil
}
