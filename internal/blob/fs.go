package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wenda-travel/wendaml/internal/domain"
)

const fsExt = ".artifact.json"

// Compile-time check: FSStore implements Store.
var _ Store = (*FSStore)(nil)

// FSStore keeps artifacts as files in a single directory. Writes are
// atomic: write to a temp file, then rename over the target.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

// Exists reports whether key holds an artifact.
func (s *FSStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat artifact %s: %w", key, err)
}

// Read returns the raw artifact bytes.
func (s *FSStore) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
		}
		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}
	return data, nil
}

// Write stores the artifact atomically via temp-then-rename.
func (s *FSStore) Write(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename artifact %s: %w", key, err)
	}
	return nil
}

// List enumerates keys under the given prefix, sorted.
func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fsExt) {
			continue
		}
		key := fileToKey(strings.TrimSuffix(name, fsExt))
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping checks that the directory is still accessible.
func (s *FSStore) Ping(_ context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("artifact dir %s: %w", s.dir, err)
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (s *FSStore) Close() {}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.dir, keyToFile(key)+fsExt)
}

// Artifact keys use ":" as a namespace separator, which is awkward in file
// names; map it to "--" both ways.
func keyToFile(key string) string { return strings.ReplaceAll(key, ":", "--") }

func fileToKey(name string) string { return strings.ReplaceAll(name, "--", ":") }
