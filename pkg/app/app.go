// Package app assembles the irhome runtime from a Config: database, device
// store, IR transceiver and controller.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/irhome/pkg/config"
	"github.com/urmzd/irhome/pkg/db"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
	"github.com/urmzd/irhome/pkg/ir"
	"github.com/urmzd/irhome/pkg/remote"
	"github.com/urmzd/irhome/pkg/store"
)

// App holds the long-lived resources shared by the binaries.
type App struct {
	DB         *db.DB
	Settings   *db.Config
	Controller *remote.Controller
	Validator  *schema.Validator

	listen string
}

// New opens the database, the device store and the IR bridge. A bridge that
// cannot be reached is replaced by a NullTransceiver so the device catalogue
// stays usable.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, settings, err := OpenDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	devices, err := OpenStore(ctx, cfg.Store, database, settings.SiteID())
	if err != nil {
		return nil, errors.Join(err, database.Close())
	}

	return &App{
		DB:         database,
		Settings:   settings,
		Controller: remote.New(devices, OpenTransceiver(cfg.IR)),
		Validator:  schema.NewValidator(),
		listen:     cfg.API.Listen,
	}, nil
}

// ListenAddress returns the --listen override or the address stored for the
// active site.
func (a *App) ListenAddress() string {
	if a.listen != "" {
		return a.listen
	}
	return a.Settings.APIAddress()
}

// Close releases the controller, then the database.
func (a *App) Close() error {
	return errors.Join(a.Controller.Close(), a.DB.Close())
}

// OpenDatabase opens the SQLite database, applies migrations and seeds it on
// first run.
func OpenDatabase(ctx context.Context, path string) (*db.DB, *db.Config, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	if err := database.Migrate(ctx); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("migrate database: %w", err), database.Close())
	}
	if err := database.Bootstrap(ctx); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("bootstrap database: %w", err), database.Close())
	}

	settings, err := database.ActiveConfig(ctx)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("load configuration: %w", err), database.Close())
	}

	log.Info().
		Str("site", settings.Site.Name).
		Str("timezone", settings.Timezone()).
		Str("api_address", settings.APIAddress()).
		Msg("Configuration loaded")

	return database, settings, nil
}

// OpenStore opens the configured device store. The sqlite backend keeps
// devices in database under siteID.
func OpenStore(ctx context.Context, cfg config.Store, database *db.DB, siteID int64) (device.Store, error) {
	log.Info().Str("backend", cfg.Backend).Msg("Opening device store")

	switch cfg.Backend {
	case config.BackendSQLite, "":
		return database.Devices(siteID), nil
	case config.BackendBolt:
		return store.OpenBolt(cfg.BoltPath)
	case config.BackendDocStore:
		return store.OpenDocStore(ctx, cfg.DocStoreURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// OpenTransceiver connects to the IR bridge over the configured transport.
func OpenTransceiver(cfg config.IR) ir.Transceiver {
	var (
		tr  ir.Transceiver
		err error
	)

	switch cfg.Transport {
	case config.TransportSerial:
		tr, err = ir.NewSerialTransceiver(cfg.Config)
	case config.TransportMQTT:
		tr, err = ir.NewMQTTTransceiver(cfg.Config, cfg.MQTT)
	case config.TransportNone, "":
		log.Info().Msg("IR transport disabled, using null transceiver")
		return ir.NewNullTransceiver()
	default:
		err = fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	if err != nil {
		log.Warn().Err(err).Str("transport", cfg.Transport).Msg("IR bridge unavailable, using null transceiver")
		return ir.NewNullTransceiver()
	}
	return tr
}
