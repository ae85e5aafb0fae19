// ABOUTME: Ordered callback registry for key events
// ABOUTME: Dispatches in registration order with per-handler isolation
package listener

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies a registered callback for later removal.
type Handle = uuid.UUID

type registration struct {
	id Handle
	cb Callback
}

// Registry holds callbacks in registration order. Dispatch runs on the
// caller's goroutine; a failing handler never stops the rest.
type Registry struct {
	mu      sync.Mutex
	entries []registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends cb and returns a handle for removal. Duplicate
// callbacks are allowed and invoked once per registration.
func (r *Registry) Register(cb Callback) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	r.entries = append(r.entries, registration{id: id, cb: cb})
	return id
}

// Remove deletes the callback registered under h. It reports whether
// anything was removed.
func (r *Registry) Remove(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id == h {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of registered callbacks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Dispatch invokes every callback in registration order, synchronously.
// A panicking handler is logged and the remaining handlers still run.
func (r *Registry) Dispatch(ev KeyEvent) {
	r.mu.Lock()
	snapshot := make([]registration, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		invoke(e.cb, ev)
	}
}

func invoke(cb Callback, ev KeyEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("key callback panicked on %q: %v", ev.Key, rec)
		}
	}()
	cb(ev)
}
