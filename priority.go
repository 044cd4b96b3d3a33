package trigz

import (
	"context"
	"sort"
	"sync"

	"github.com/zoobzio/clockz"
)

// DefaultPriority is the priority assigned by PriorityRegistry.Register.
// Callbacks that need to run before or after the default tier use
// RegisterPriority with a higher or lower value.
const DefaultPriority = 10

// priorityEntry is one registered callback with its ordering metadata.
// Entries are kept sorted by priority descending; the stable sort preserves
// registration order between equal priorities. The id is the handle
// identity for individual removal.
type priorityEntry[T any] struct {
	callback Callback[T]
	id       uint64
	priority int
}

// PriorityRegistry is a hook registry that runs multiple callbacks per name
// in priority order. Higher priorities run first; callbacks sharing a
// priority run in registration order. Triggering is strictly sequential and
// fail-fast: the first callback failure skips the rest.
//
// Unlike Registry, registration never fails — multiple callbacks per name
// is the intended use. Individual callbacks are removed through the Hook
// handle returned at registration; Unregister removes a name wholesale.
type PriorityRegistry[T any] struct {
	clock  clockz.Clock // Time abstraction injected at creation
	hooks  map[string][]priorityEntry[T]
	order  []string // registration order of live names, for List
	nextID uint64   // handle identity source, guarded by mu
	total  int      // live callbacks across all names
	mu     sync.RWMutex

	metrics counters
}

// NewPriority creates a priority-ordered registry for payloads of type T.
func NewPriority[T any](opts ...Option) *PriorityRegistry[T] {
	cfg := newConfig(opts)
	return &PriorityRegistry[T]{
		clock: cfg.clock,
		hooks: make(map[string][]priorityEntry[T]),
	}
}

// Register adds fn under name at DefaultPriority and returns a handle that
// removes exactly this callback.
func (r *PriorityRegistry[T]) Register(name Key, fn Callback[T]) Hook {
	return r.RegisterPriority(name, fn, DefaultPriority)
}

// RegisterPriority adds fn under name with an explicit priority and returns
// a handle that removes exactly this callback. The name's callback list is
// re-sorted by priority descending, stable on ties, so execution order is
// fixed at registration time. Never fails; duplicate callbacks under one
// name are allowed.
func (r *PriorityRegistry[T]) RegisterPriority(name Key, fn Callback[T], priority int) Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	if _, exists := r.hooks[name]; !exists {
		r.order = append(r.order, name)
	}

	list := append(r.hooks[name], priorityEntry[T]{
		id:       id,
		priority: priority,
		callback: fn,
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	r.hooks[name] = list
	r.total++

	return Hook{
		remove: func() bool {
			return r.removeEntry(name, id)
		},
	}
}

// removeEntry deletes one callback by handle identity. An emptied list
// removes the name entirely, so Has and List treat it as never registered.
func (r *PriorityRegistry[T]) removeEntry(name Key, id uint64) bool {
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
func (r *PriorityRegistry[T]) Unregister(name Key) bool {
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
func (r *PriorityRegistry[T]) Has(name Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks[name]) > 0
}

// List returns all names with at least one callback, in the order the
// names were first registered.
func (r *PriorityRegistry[T]) List() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Key, len(r.order))
	copy(names, r.order)
	return names
}

// On triggers every callback registered under name, strictly sequentially
// in (priority descending, then registration) order, waiting for each to
// return before starting the next. It fails with ErrNotFound when name has
// no callbacks. The first callback error or panic aborts the remaining
// callbacks for this trigger and is wrapped as ErrExecution; callbacks that
// already ran are not rolled back.
func (r *PriorityRegistry[T]) On(ctx context.Context, name Key, data T) error {
	r.mu.RLock()
	entries := make([]priorityEntry[T], len(r.hooks[name]))
	copy(entries, r.hooks[name])
	r.mu.RUnlock()

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

// Metrics returns a snapshot of the registry's observability counters.
func (r *PriorityRegistry[T]) Metrics() Metrics {
	r.mu.RLock()
	registered := int64(r.total)
	r.mu.RUnlock()

	return r.metrics.snapshot(registered)
}
