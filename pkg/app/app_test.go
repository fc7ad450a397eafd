package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/irhome/pkg/config"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/ir"
	"github.com/urmzd/irhome/pkg/store"
)

func testConfig(t *testing.T, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		LogLevel: "info",
		DBPath:   filepath.Join(dir, "irhome.db"),
		Store: config.Store{
			Backend:     backend,
			BoltPath:    filepath.Join(dir, "devices.db"),
			DocStoreURL: "mem://devices/" + store.DocStoreKeyField,
		},
		IR: config.IR{Transport: config.TransportNone},
	}
}

func fan(t *testing.T) *device.Device {
	t.Helper()
	d, err := device.Definition{
		DeviceID: "fan",
		Controls: []control.Spec{{Name: "power", Kind: control.KindBinary}},
	}.Build()
	require.NoError(t, err)
	return d
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBolt, config.BackendDocStore} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			a, err := New(ctx, testConfig(t, backend))
			require.NoError(t, err)
			defer a.Close()

			require.NoError(t, a.Controller.PutDevice(ctx, "fan", fan(t)))
			ids, err := a.Controller.ListDevices(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"fan"}, ids)

			assert.False(t, a.Controller.IsConnected())
			assert.Equal(t, "0.0.0.0:8080", a.ListenAddress())
		})
	}
}

func TestNew_ListenOverride(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	cfg.API.Listen = "127.0.0.1:9090"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "127.0.0.1:9090", a.ListenAddress())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "postgres"))
	assert.Error(t, err)
}

func TestOpenTransceiver_FallsBackToNull(t *testing.T) {
	tr := OpenTransceiver(config.IR{
		Transport: config.TransportSerial,
		Config:    ir.Config{Port: filepath.Join(t.TempDir(), "no-such-tty")},
	})
	_, ok := tr.(*ir.NullTransceiver)
	assert.True(t, ok)
	assert.ErrorIs(t, tr.Emit(context.Background(), ir.Command{Name: "x", Pulses: []int{1}}), ir.ErrNotConnected)
}
