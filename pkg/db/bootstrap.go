package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSite is the name of the site created on first run.
const DefaultSite = "home"

// Bootstrap creates the default site and its listener on an empty database.
// It is a no-op once any site exists.
func (db *DB) Bootstrap(ctx context.Context) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("check sites: %w", err)
	}
	if !needed {
		return nil
	}

	site := &Site{Name: DefaultSite, Timezone: localTimezone(), IsActive: true}
	if err := db.Sites().Create(ctx, site); err != nil {
		return err
	}

	l, err := ParseListener(site.ID, DefaultListen)
	if err != nil {
		return err
	}
	if err := db.Listeners().Set(ctx, l); err != nil {
		return err
	}

	log.Info().Str("site", site.Name).Str("timezone", site.Timezone).Str("listen", l.Address()).Msg("database bootstrapped")
	return nil
}

// localTimezone returns an IANA zone name for the host, falling back to UTC.
func localTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		if tz := strings.TrimSpace(string(data)); tz != "" {
			return tz
		}
	}
	if link, err := os.Readlink("/etc/localtime"); err == nil {
		if _, zone, ok := strings.Cut(link, "zoneinfo/"); ok {
			return zone
		}
	}
	return "UTC"
}

// NeedsBootstrap reports whether no site has been created yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
