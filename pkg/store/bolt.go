package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/irhome/pkg/device"
	bolt "go.etcd.io/bbolt"
)

var devicesBucket = []byte("devices")

// Bolt stores one record per device in a single bbolt bucket.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bbolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(devicesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	log.Debug().Str("path", path).Msg("bolt store opened")
	return &Bolt{db: db}, nil
}

func (s *Bolt) ListKeys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(devicesBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Bolt) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(devicesBucket).Get([]byte(id)) != nil
		return nil
	})
	return ok, err
}

func (s *Bolt) Get(ctx context.Context, id string) (*device.Device, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(devicesBucket).Get([]byte(id))
		if v == nil {
			return notFound(id)
		}
		// v is only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decode(id, data)
}

func (s *Bolt) Put(ctx context.Context, id string, d *device.Device) error {
	data, err := encode(id, d)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(devicesBucket).Put([]byte(id), data)
	})
}

func (s *Bolt) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(devicesBucket)
		if b.Get([]byte(id)) == nil {
			return notFound(id)
		}
		return b.Delete([]byte(id))
	})
}

func (s *Bolt) Close() error {
	return s.db.Close()
}
