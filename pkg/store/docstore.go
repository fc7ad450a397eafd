package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/irhome/pkg/device"
	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/docstore/memdocstore"
	_ "gocloud.dev/docstore/mongodocstore"
)

// DocStoreKeyField is the key field collections must be opened with,
// e.g. "mem://devices/device_id" or "mongo://irhome/devices?id_field=device_id".
const DocStoreKeyField = "device_id"

type deviceDoc struct {
	DeviceID string `docstore:"device_id"`
	Record   string `docstore:"record"`
}

// DocStore keeps device records in a gocloud docstore collection.
type DocStore struct {
	coll *docstore.Collection
}

// OpenDocStore opens the collection at url.
func OpenDocStore(ctx context.Context, url string) (*DocStore, error) {
	coll, err := docstore.OpenCollection(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", url, err)
	}
	log.Debug().Str("url", url).Msg("docstore collection opened")
	return &DocStore{coll: coll}, nil
}

func (s *DocStore) ListKeys(ctx context.Context) ([]string, error) {
	iter := s.coll.Query().Get(ctx, DocStoreKeyField)
	defer iter.Stop()

	keys := make([]string, 0)
	for {
		var doc deviceDoc
		err := iter.Next(ctx, &doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, doc.DeviceID)
	}
	return sorted(keys), nil
}

func (s *DocStore) Exists(ctx context.Context, id string) (bool, error) {
	doc := deviceDoc{DeviceID: id}
	err := s.coll.Get(ctx, &doc, DocStoreKeyField)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DocStore) Get(ctx context.Context, id string) (*device.Device, error) {
	doc := deviceDoc{DeviceID: id}
	err := s.coll.Get(ctx, &doc)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return decode(id, []byte(doc.Record))
}

func (s *DocStore) Put(ctx context.Context, id string, d *device.Device) error {
	data, err := encode(id, d)
	if err != nil {
		return err
	}
	return s.coll.Put(ctx, &deviceDoc{DeviceID: id, Record: string(data)})
}

// Delete reports ErrNotFound for absent ids. The existence check and the
// delete are separate calls.
func (s *DocStore) Delete(ctx context.Context, id string) error {
	ok, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return s.coll.Delete(ctx, &deviceDoc{DeviceID: id})
}

func (s *DocStore) Close() error {
	return s.coll.Close()
}
