// Package store provides device.Store backends. Every backend persists the
// device's JSON record and replaces it whole on Put.
package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urmzd/irhome/pkg/device"
)

func encode(id string, d *device.Device) ([]byte, error) {
	if err := device.CheckID(id, d); err != nil {
		return nil, err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	return data, nil
}

func decode(id string, data []byte) (*device.Device, error) {
	var d device.Device
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &d, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", device.ErrNotFound, id)
}

func sorted(keys []string) []string {
	sort.Strings(keys)
	return keys
}
