package trigz

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
)

// parallelEntry is one registered callback with its handle identity.
type parallelEntry[T any] struct {
	callback Callback[T]
	id       uint64
}

// ParallelRegistry is a hook registry that runs multiple callbacks per name
// either sequentially in registration order (On) or concurrently
// (OnConcurrent), chosen per trigger.
//
// Registration never fails and carries no priority: registration order is
// the sequential execution order and has no bearing on concurrent runs.
type ParallelRegistry[T any] struct {
	clock  clockz.Clock // Time abstraction injected at creation
	hooks  map[string][]parallelEntry[T]
	order  []string // registration order of live names, for List
	nextID uint64   // handle identity source, guarded by mu
	total  int      // live callbacks across all names
	mu     sync.RWMutex

	metrics counters
}

// NewParallel creates a parallel-capable registry for payloads of type T.
func NewParallel[T any](opts ...Option) *ParallelRegistry[T] {
	cfg := newConfig(opts)
	return &ParallelRegistry[T]{
		clock: cfg.clock,
		hooks: make(map[string][]parallelEntry[T]),
	}
}

// Register appends fn to name's callback list and returns a handle that
// removes exactly this callback. Never fails; duplicate callbacks under one
// name are allowed.
func (r *ParallelRegistry[T]) Register(name Key, fn Callback[T]) Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	if _, exists := r.hooks[name]; !exists {
		r.order = append(r.order, name)
	}

	r.hooks[name] = append(r.hooks[name], parallelEntry[T]{
		id:       id,
		callback: fn,
	})
	r.total++

	return Hook{
		remove: func() bool {
			return r.removeEntry(name, id)
		},
	}
}

// removeEntry deletes one callback by handle identity. An emptied list
// removes the name entirely, so Has and List treat it as never registered.
func (r *ParallelRegistry[T]) removeEntry(name Key, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.hooks[name]
	for i, entry := range list {
		if entry.id == id {
			r.hooks[name] = append(list[:i], list[i+1:]...)
			if len(r.hooks[name]) == 0 {
				delete(r.hooks, name)
				r.order = dropName(r.order, name)
			}
			r.total--
			return true
		}
	}
	return false
}

// Unregister removes every callback registered under name and reports
// whether the name existed. Handles for the removed callbacks become
// no-ops.
func (r *ParallelRegistry[T]) Unregister(name Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, exists := r.hooks[name]
	if !exists {
		return false
	}

	r.total -= len(list)
	delete(r.hooks, name)
	r.order = dropName(r.order, name)
	return true
}

// Has reports whether name currently has at least one registered callback.
func (r *ParallelRegistry[T]) Has(name Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks[name]) > 0
}

// List returns all names with at least one callback, in the order the
// names were first registered.
func (r *ParallelRegistry[T]) List() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Key, len(r.order))
	copy(names, r.order)
	return names
}

// On triggers every callback registered under name sequentially in
// registration order, waiting for each to return before starting the next.
// It fails with ErrNotFound when name has no callbacks; the first callback
// error or panic aborts the remaining callbacks for this trigger and is
// wrapped as ErrExecution.
func (r *ParallelRegistry[T]) On(ctx context.Context, name Key, data T) error {
	entries := r.snapshotEntries(name)
	if len(entries) == 0 {
		return notFoundError(name)
	}

	for _, entry := range entries {
		err := invoke(ctx, entry.callback, data)
		r.metrics.callbackDone(err != nil)
		if err != nil {
			r.metrics.triggerDone(r.clock, true)
			return executionError(name, err)
		}
	}

	r.metrics.triggerDone(r.clock, false)
	return nil
}

// OnConcurrent triggers every callback registered under name at once, each
// on its own goroutine, and returns after all of them have settled. It
// fails with ErrNotFound when name has no callbacks.
//
// Failure semantics: if any callback returns an error or panics, the
// trigger fails with that failure wrapped as ErrExecution. The registry
// never cancels the sibling callbacks — no derived context is used, so a
// failure cannot abort its peers; they always run to completion before
// OnConcurrent returns. When several callbacks fail in one trigger, the
// first failure observed (completion order, which is nondeterministic)
// is the one returned; the others are still visible in Metrics as
// CallbacksFailed.
func (r *ParallelRegistry[T]) OnConcurrent(ctx context.Context, name Key, data T) error {
	entries := r.snapshotEntries(name)
	if len(entries) == 0 {
		return notFoundError(name)
	}

	var g errgroup.Group
	for _, entry := range entries {
		fn := entry.callback
		g.Go(func() error {
			err := invoke(ctx, fn, data)
			r.metrics.callbackDone(err != nil)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		r.metrics.triggerDone(r.clock, true)
		return executionError(name, err)
	}

	r.metrics.triggerDone(r.clock, false)
	return nil
}

// snapshotEntries copies name's callback list under the read lock so
// triggers iterate free of the lock and callbacks may re-enter the
// registry.
func (r *ParallelRegistry[T]) snapshotEntries(name Key) []parallelEntry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]parallelEntry[T], len(r.hooks[name]))
	copy(entries, r.hooks[name])
	return entries
}

// Metrics returns a snapshot of the registry's observability counters.
func (r *ParallelRegistry[T]) Metrics() Metrics {
	r.mu.RLock()
	registered := int64(r.total)
	r.mu.RUnlock()

	return r.metrics.snapshot(registered)
}
