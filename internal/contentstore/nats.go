package contentstore

import (
	"context"
	stderrors "errors"

	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// NATSKV implements KV on a JetStream key-value bucket.
type NATSKV struct {
	kv jetstream.KeyValue
}

// NewNATSKV opens bucket, creating it with a single revision of history if needed.
func NewNATSKV(ctx context.Context, js jetstream.JetStream, bucket string) (*NATSKV, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return &NATSKV{kv: kv}, nil
	}
	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Salon site content",
		History:     1,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "create kv bucket").
			WithContext("bucket", bucket).Build()
	}
	return &NATSKV{kv: kv}, nil
}

func (n *NATSKV) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if stderrors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "get kv entry").Build()
	}
	return entry.Value(), nil
}

func (n *NATSKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := n.kv.Put(ctx, key, value); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "put kv entry").Retryable().Build()
	}
	return nil
}

func (n *NATSKV) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !stderrors.Is(err, jetstream.ErrKeyNotFound) {
		return errors.WrapError(err, errors.CategoryNetwork, "delete kv entry").Build()
	}
	return nil
}
