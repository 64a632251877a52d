package modelcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
)

// mockStore implements blob.Store in memory with a read counter.
type mockStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	reads atomic.Int64
	delay time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Read(_ context.Context, key string) ([]byte, error) {
	m.reads.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
	}
	return d, nil
}

func (m *mockStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *mockStore) List(_ context.Context, _ string) ([]string, error) { return nil, nil }
func (m *mockStore) Ping(_ context.Context) error                      { return nil }
func (m *mockStore) Close()                                            {}

func decodeString(data []byte) (string, error) {
	if string(data) == "corrupt" {
		return "", domain.ErrArtifactCorrupt
	}
	return string(data), nil
}

func newTestCache(t *testing.T, store blob.Store) *Cache[string] {
	t.Helper()
	c, err := New(store, 16, decodeString, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCache_LoadOnce(t *testing.T) {
	store := newMockStore()
	store.data["clustering:v1"] = []byte("model-a")
	c := newTestCache(t, store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		v, err := c.Get(ctx, "clustering:v1")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if v != "model-a" {
			t.Fatalf("get %d: got %q", i, v)
		}
	}

	if n := store.reads.Load(); n != 1 {
		t.Errorf("expected exactly 1 store read, got %d", n)
	}
}

func TestCache_SingleFlight(t *testing.T) {
	store := newMockStore()
	store.data["recommender:v1"] = []byte("model-b")
	store.delay = 20 * time.Millisecond
	c := newTestCache(t, store)

	const goroutines = 16
	var wg sync.WaitGroup
	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), "recommender:v1")
			if err != nil {
				errCh <- err
				return
			}
			if v != "model-b" {
				errCh <- fmt.Errorf("got %q", v)
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}

	if n := store.reads.Load(); n != 1 {
		t.Errorf("expected 1 store read under concurrency, got %d", n)
	}
}

func TestCache_NotFound(t *testing.T) {
	c := newTestCache(t, newMockStore())

	_, err := c.Get(context.Background(), "forecast:Huila")
	if !errors.Is(err, domain.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestCache_NotFoundNotCachedNegatively(t *testing.T) {
	store := newMockStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	if _, err := c.Get(ctx, "forecast:Luanda"); !errors.Is(err, domain.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}

	// A later training run publishes the key; the next Get must succeed.
	store.data["forecast:Luanda"] = []byte("fresh")
	v, err := c.Get(ctx, "forecast:Luanda")
	if err != nil {
		t.Fatalf("get after publish: %v", err)
	}
	if v != "fresh" {
		t.Errorf("got %q", v)
	}
}

func TestCache_Corrupt(t *testing.T) {
	store := newMockStore()
	store.data["clustering:v1"] = []byte("corrupt")
	c := newTestCache(t, store)

	_, err := c.Get(context.Background(), "clustering:v1")
	if !errors.Is(err, domain.ErrArtifactCorrupt) {
		t.Fatalf("expected ErrArtifactCorrupt, got %v", err)
	}
	if c.Cached("clustering:v1") {
		t.Error("corrupt artifact must not be cached")
	}
}

func TestListAvailable(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	data, err := blob.Encode(domain.Manifest{Name: "forecast_Luanda", Version: "v1"}, map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := store.Write(ctx, "forecast:Luanda", data); err != nil {
		t.Fatalf("write: %v", err)
	}

	infos, err := ListAvailable(ctx, store, "forecast:")
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(infos))
	}
	if infos[0].Key != "forecast:Luanda" || infos[0].Manifest.Name != "forecast_Luanda" {
		t.Errorf("unexpected info: %+v", infos[0])
	}
}
