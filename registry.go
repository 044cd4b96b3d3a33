package trigz

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
)

// Registry is the basic hook registry: each name holds exactly one
// callback. Registering a taken name fails with ErrDuplicate and the first
// registration is retained, which makes Registry the right variant for
// extension points where a second registration indicates a wiring bug.
//
// Thread Safety:
// All methods are safe for concurrent use. Registration state is guarded by
// a read-write mutex; On invokes the callback outside the lock.
//
// Usage Pattern:
// Embed a Registry as a private field and expose it by reference:
//
//	type DocumentStore struct {
//	    hooks *trigz.Registry[Document]
//	}
//
//	func (s *DocumentStore) Hooks() *trigz.Registry[Document] {
//	    return s.hooks
//	}
type Registry[T any] struct {
	clock clockz.Clock // Time abstraction injected at creation
	hooks map[string]Callback[T]
	order []string // registration order of live names, for List
	mu    sync.RWMutex

	// Metrics field - zero initialization provides safe defaults
	metrics counters
}

// New creates a basic registry for payloads of type T.
//
// Example:
//
//	hooks := trigz.New[User]()
//
//	// With a fake clock for deterministic metrics in tests
//	hooks := trigz.New[User](trigz.WithClock(clock))
func New[T any](opts ...Option) *Registry[T] {
	cfg := newConfig(opts)
	return &Registry[T]{
		clock: cfg.clock,
		hooks: make(map[string]Callback[T]),
	}
}

// Register stores fn under name. It fails with ErrDuplicate (wrapped in a
// *HookError) when name already has a callback; the existing callback is
// never overwritten.
func (r *Registry[T]) Register(name Key, fn Callback[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; exists {
		return duplicateError(name)
	}

	r.hooks[name] = fn
	r.order = append(r.order, name)
	return nil
}

// Unregister removes the callback for name if present and reports whether
// a removal occurred. It never fails: unregistering an unknown name is a
// no-op returning false.
func (r *Registry[T]) Unregister(name Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; !exists {
		return false
	}

	delete(r.hooks, name)
	r.order = dropName(r.order, name)
	return true
}

// Has reports whether name currently has a registered callback.
func (r *Registry[T]) Has(name Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.hooks[name]
	return exists
}

// List returns all currently registered names in registration order.
func (r *Registry[T]) List() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Key, len(r.order))
	copy(names, r.order)
	return names
}

// On triggers the hook registered under name, passing data to its callback
// and waiting for it to return. It fails with ErrNotFound when name has no
// callback; a callback error or panic is wrapped as ErrExecution with the
// hook name and cause in the message.
func (r *Registry[T]) On(ctx context.Context, name Key, data T) error {
	r.mu.RLock()
	fn, exists := r.hooks[name]
	r.mu.RUnlock()

	if !exists {
		return notFoundError(name)
	}

	err := invoke(ctx, fn, data)
	r.metrics.callbackDone(err != nil)
	r.metrics.triggerDone(r.clock, err != nil)
	if err != nil {
		return executionError(name, err)
	}
	return nil
}

// Metrics returns a snapshot of the registry's observability counters.
func (r *Registry[T]) Metrics() Metrics {
	r.mu.RLock()
	registered := int64(len(r.hooks))
	r.mu.RUnlock()

	return r.metrics.snapshot(registered)
}

// invoke runs one callback with panic recovery so a misbehaving callback
// cannot crash the embedding application. A panic with an error value keeps
// that error as the cause; any other panic value is reported as an unknown
// error.
func invoke[T any](ctx context.Context, fn Callback[T], data T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = errUnknown
		}
	}()

	return fn(ctx, data)
}

// dropName removes the first occurrence of name from an order slice.
func dropName(order []string, name string) []string {
	for i, n := range order {
		if n == name {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
