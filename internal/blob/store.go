// Package blob implements the durable artifact store: named, versioned
// storage for trained model blobs. Artifacts are immutable once written; a
// new training run produces a new blob under the same key.
package blob

import "context"

// Store is the artifact storage contract shared by the fs and redis backends.
type Store interface {
	// Exists reports whether key holds an artifact.
	Exists(ctx context.Context, key string) (bool, error)
	// Read returns the raw artifact bytes, or domain.ErrArtifactNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write stores the artifact bytes under key, replacing any previous blob.
	Write(ctx context.Context, key string, data []byte) error
	// List enumerates keys currently present under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Ping checks backend reachability.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close()
}
