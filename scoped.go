package trigz

import (
	"context"
	"strings"
)

// ScopedRegistry namespaces a Registry: every hook name passing through it
// is prefixed with "<prefix>:" before reaching the inner registry, so
// independent subsystems can share one naming convention without colliding.
// List strips the prefix back off, so callers only ever see their own
// unqualified names.
//
// The prefix is fixed at construction. An empty prefix is permitted but
// discouraged: it produces names of the form ":name".
//
// ScopedRegistry holds no state of its own and raises no error kinds beyond
// the inner Registry's; note that HookError.Hook carries the fully prefixed
// name as stored internally.
type ScopedRegistry[T any] struct {
	inner  *Registry[T]
	prefix string
}

// NewScoped creates a scoped registry owning a fresh inner Registry.
// Options are passed through to the inner registry.
//
// Example:
//
//	userHooks := trigz.NewScoped[Session]("user")
//	userHooks.Register("login", onLogin) // stored as "user:login"
//	userHooks.List()                     // ["login"]
func NewScoped[T any](prefix string, opts ...Option) *ScopedRegistry[T] {
	return &ScopedRegistry[T]{
		inner:  New[T](opts...),
		prefix: prefix,
	}
}

// Prefix returns the namespace this registry was constructed with.
func (s *ScopedRegistry[T]) Prefix() string {
	return s.prefix
}

// scope qualifies a caller-facing name with the registry's namespace.
func (s *ScopedRegistry[T]) scope(name Key) Key {
	return s.prefix + ":" + name
}

// Register stores fn under the prefixed name. Duplicate semantics are the
// inner Registry's: a second registration for the same scoped name fails
// with ErrDuplicate.
func (s *ScopedRegistry[T]) Register(name Key, fn Callback[T]) error {
	return s.inner.Register(s.scope(name), fn)
}

// Unregister removes the callback for the prefixed name if present and
// reports whether a removal occurred.
func (s *ScopedRegistry[T]) Unregister(name Key) bool {
	return s.inner.Unregister(s.scope(name))
}

// Has reports whether the prefixed name currently has a callback.
func (s *ScopedRegistry[T]) Has(name Key) bool {
	return s.inner.Has(s.scope(name))
}

// List returns the registry's names in registration order, with the
// namespace prefix stripped. Names in the inner registry outside this
// namespace are filtered out; none exist today since every registration
// goes through scope, but the filter keeps List correct if the inner
// registry is ever shared.
func (s *ScopedRegistry[T]) List() []Key {
	qualifier := s.prefix + ":"

	var names []Key
	for _, name := range s.inner.List() {
		if strings.HasPrefix(name, qualifier) {
			names = append(names, name[len(qualifier):])
		}
	}
	return names
}

// On triggers the hook registered under the prefixed name. Error semantics
// are the inner Registry's: ErrNotFound for an unknown name, ErrExecution
// wrapping a callback failure.
func (s *ScopedRegistry[T]) On(ctx context.Context, name Key, data T) error {
	return s.inner.On(ctx, s.scope(name), data)
}

// Metrics returns the inner registry's observability snapshot.
func (s *ScopedRegistry[T]) Metrics() Metrics {
	return s.inner.Metrics()
}
