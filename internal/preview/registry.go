// Package preview hands out transient, revocable references to uploaded
// photos so the page can display them before generation. Each reference is
// released exactly once, either when its subject's selection is replaced or
// when the owning session is torn down.
package preview

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"adjectivemagic/internal/storage"
)

// ErrReleased is returned when a reference is looked up after release.
var ErrReleased = errors.New("preview: reference released")

// RoutePrefix is the URL path under which live references are served.
const RoutePrefix = "/previews/"

// Registry tracks live preview references.
type Registry struct {
	mu   sync.RWMutex
	live map[string]storage.FileHandle
}

func NewRegistry() *Registry {
	return &Registry{live: make(map[string]storage.FileHandle)}
}

// Acquire creates a new live reference to file.
func (r *Registry) Acquire(file storage.FileHandle) *Handle {
	id := uuid.NewString()
	r.mu.Lock()
	r.live[id] = file
	r.mu.Unlock()
	return &Handle{id: id, registry: r}
}

// Open resolves a live reference id to its file.
func (r *Registry) Open(id string) (storage.FileHandle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.live[id]
	if !ok {
		return nil, ErrReleased
	}
	return f, nil
}

// Live reports the number of references not yet released.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

func (r *Registry) release(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}

// Handle owns one preview reference.
type Handle struct {
	id       string
	registry *Registry
	released atomic.Bool
}

// ID is the reference identifier used in the preview URL.
func (h *Handle) ID() string {
	return h.id
}

// URL is the displayable location of the preview.
func (h *Handle) URL() string {
	return RoutePrefix + h.id
}

// Release revokes the reference. It reports true only for the call that
// actually released it; later calls are no-ops.
func (h *Handle) Release() bool {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return false
	}
	h.registry.release(h.id)
	return true
}

// Released reports whether Release has run.
func (h *Handle) Released() bool {
	return h == nil || h.released.Load()
}
