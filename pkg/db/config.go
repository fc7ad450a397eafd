package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoActiveSite = errors.New("no active site found")

// DefaultListen is used when the active site has no listener row.
const DefaultListen = "0.0.0.0:8080"

// Config is the runtime state stored for the active site.
type Config struct {
	Site     *Site
	Listener *Listener
}

// APIAddress returns the REST listen address of the active site.
func (c *Config) APIAddress() string {
	if c.Listener == nil {
		return DefaultListen
	}
	return c.Listener.Address()
}

func (c *Config) Timezone() string {
	if c.Site == nil {
		return "UTC"
	}
	return c.Site.Timezone
}

// SiteID returns the id of the active site, or 0 when none is loaded.
func (c *Config) SiteID() int64 {
	if c.Site == nil {
		return 0
	}
	return c.Site.ID
}

// ActiveConfig loads the active site and its listener.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	site, err := db.Sites().GetActive(ctx)
	if errors.Is(err, ErrSiteNotFound) {
		return nil, ErrNoActiveSite
	}
	if err != nil {
		return nil, fmt.Errorf("load active site: %w", err)
	}

	l, err := db.Listeners().Get(ctx, site.ID)
	if err != nil && !errors.Is(err, ErrListenerNotFound) {
		return nil, fmt.Errorf("load listener: %w", err)
	}
	return &Config{Site: site, Listener: l}, nil
}
