// Package modelcache provides the lazy, single-flight, in-process cache over
// the artifact store. Each key is read and deserialized at most once per
// process lifetime; after that the cached instance is shared, immutable, and
// read without locking.
package modelcache

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
)

// DecodeFunc deserializes artifact bytes into a model instance.
type DecodeFunc[V any] func(data []byte) (V, error)

// Cache is a single-flight loader cache keyed by artifact name. A burst of
// N concurrent misses for the same key triggers one store read; the rest
// wait for and share that result. Load failures are not cached: a later
// training run may publish the missing key.
type Cache[V any] struct {
	store  blob.Store
	decode DecodeFunc[V]
	lru    *lru.Cache[string, V]
	group  singleflight.Group
	logger *zap.Logger
}

// New creates a cache over the store with the given decode function.
func New[V any](store blob.Store, maxEntries int, decode DecodeFunc[V], logger *zap.Logger) (*Cache[V], error) {
	l, err := lru.New[string, V](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{store: store, decode: decode, lru: l, logger: logger}, nil
}

// Get returns the cached model for key, loading and deserializing it from
// the store on first use. Returns domain.ErrArtifactNotFound when the store
// has no such key, and domain.ErrArtifactCorrupt when deserialization
// fails; callers treat both as "model unavailable".
func (c *Cache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		// Double-check under singleflight: a previous flight may have
		// populated the entry between our miss and Do.
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}

		data, readErr := c.store.Read(ctx, key)
		if readErr != nil {
			return zero[V](), readErr
		}

		model, decErr := c.decode(data)
		if decErr != nil {
			c.logger.Warn("artifact failed to deserialize",
				zap.String("key", key), zap.Error(decErr))
			// Schema mismatches are fatal and propagate as-is; everything
			// else is a corrupt blob, handled like a missing artifact.
			if errors.Is(decErr, domain.ErrArtifactCorrupt) || errors.Is(decErr, domain.ErrSchemaMismatch) {
				return zero[V](), decErr
			}
			return zero[V](), errors.Join(domain.ErrArtifactCorrupt, decErr)
		}

		c.lru.Add(key, model)
		return model, nil
	})
	if err != nil {
		return zero[V](), err
	}

	return val.(V), nil
}

// Cached reports whether key is already deserialized in memory.
func (c *Cache[V]) Cached(key string) bool {
	_, ok := c.lru.Get(key)
	return ok
}

func zero[V any]() (z V) { return z }

// ListAvailable enumerates artifacts currently present in the store under
// the prefix, with their manifests. Operational introspection only; the
// model logic never calls this.
func ListAvailable(ctx context.Context, store blob.Store, prefix string) ([]domain.ArtifactInfo, error) {
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.ArtifactInfo, 0, len(keys))
	for _, key := range keys {
		data, err := store.Read(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrArtifactNotFound) {
				continue // removed between List and Read
			}
			return nil, err
		}
		m, err := blob.DecodeManifest(data)
		if err != nil {
			// Corrupt entries still appear in the listing, just without metadata.
			infos = append(infos, domain.ArtifactInfo{Key: key})
			continue
		}
		infos = append(infos, domain.ArtifactInfo{Key: key, Manifest: m})
	}
	return infos, nil
}
