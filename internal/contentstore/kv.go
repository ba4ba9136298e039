package contentstore

import (
	"context"
	stderrors "errors"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.NewError(errors.CategoryNotFound, "key not found").Build()

// KV is the minimal key-value storage the KV backend needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KVStore keeps the document as JSON under a single key.
type KVStore struct {
	base
	kv  KV
	key string
}

// NewKVStore creates a store over kv. name labels logs and metrics ("memory", "sqlite", "nats").
func NewKVStore(kv KV, name, key string, opts ...Option) *KVStore {
	if key == "" {
		key = content.StoreKey
	}
	return &KVStore{base: newBase(name, opts), kv: kv, key: key}
}

func (s *KVStore) Load(ctx context.Context) content.Document {
	return s.Inspect(ctx).Document
}

func (s *KVStore) Inspect(ctx context.Context) LoadResult {
	data, err := s.kv.Get(ctx, s.key)
	switch {
	case stderrors.Is(err, ErrNotFound):
		return s.finish(ctx, LoadResult{Source: SourceAbsent})
	case err != nil:
		return s.finish(ctx, LoadResult{Source: SourceUnreadable, Err: err})
	}

	doc, err := content.Decode(data)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryNotFound) {
			return s.finish(ctx, LoadResult{Source: SourceAbsent})
		}
		if derr := s.kv.Delete(ctx, s.key); derr != nil {
			s.logger.WarnContext(ctx, "Could not clear malformed content",
				logfields.Backend(s.backend), logfields.Key(s.key), logfields.Error(derr))
		}
		return s.finish(ctx, LoadResult{Source: SourceMalformed, Err: err})
	}
	return s.finish(ctx, LoadResult{Document: doc, Source: SourceStored})
}

func (s *KVStore) Save(ctx context.Context, doc content.Document) error {
	data, err := content.Encode(doc)
	if err == nil {
		err = s.retry.Do(ctx, func(ctx context.Context) error { return s.kv.Set(ctx, s.key, data) })
	}
	if err != nil {
		err = errors.WrapError(err, errors.CategoryWriteFailed, "save content").
			UserAction().
			WithContext("backend", s.backend).
			WithContext("key", s.key).
			Build()
	}
	return s.saved(ctx, err)
}
