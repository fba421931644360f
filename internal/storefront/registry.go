package storefront

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/infrastructure/store"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// DefaultCapacity is the number of workspaces a Registry keeps open when
// no capacity is given.
const DefaultCapacity = 10000

// Registry opens workspaces on first use and keeps the most recently used
// ones open. Each client's data lives under its own KV namespace, so an
// evicted workspace is restored from storage by the next Get.
type Registry struct {
	mu    sync.Mutex // serialises Open for missing clients
	kv    store.KV
	deps  Dependencies
	cache *lru.Cache
}

// NewRegistry keeps at most capacity workspaces open. A capacity of zero
// or less means DefaultCapacity.
func NewRegistry(kv store.KV, deps Dependencies, capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("registry")

	cache, err := lru.NewWithEvict(capacity, func(key, _ interface{}) {
		logger.Debug("workspace evicted", zap.Any("client_id", key))
	})
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &Registry{kv: kv, deps: deps, cache: cache}
}

// Get returns the workspace for clientID, restoring it from storage when
// it is not open.
func (r *Registry) Get(ctx context.Context, clientID string) (*Workspace, error) {
	if w, ok := r.cache.Get(clientID); ok {
		return w.(*Workspace), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.cache.Get(clientID); ok {
		return w.(*Workspace), nil
	}

	w, err := Open(ctx, clientID, store.Namespace(r.kv, clientID), r.deps)
	if err != nil {
		return nil, err
	}
	r.cache.Add(clientID, w)
	return w, nil
}

// Len is the number of open workspaces.
func (r *Registry) Len() int {
	return r.cache.Len()
}
