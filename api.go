// Package trigz provides in-memory, type-safe lifecycle-hook registries:
// named extension points that embedding applications register callbacks
// against and later trigger by name.
//
// Four registry variants cover the common dispatch shapes:
//
//   - Registry: one callback per name, duplicate registration rejected
//   - PriorityRegistry: many callbacks per name, priority-ordered execution
//   - ParallelRegistry: many callbacks per name, sequential or concurrent execution
//   - ScopedRegistry: a Registry wrapper that namespaces every hook name
//
// All execution is driven synchronously by the caller: triggering a hook
// via On runs its callbacks on the calling goroutine (or, for
// ParallelRegistry.OnConcurrent, on goroutines joined before the call
// returns). There is no background scheduler, queue, or worker pool, and
// the registry never retries or times out a callback. A callback that never
// returns will hang its trigger; callers that need deadlines should enforce
// them through the context they pass, which every callback receives.
//
// Basic Usage:
//
//	hooks := trigz.New[Order]()
//
//	if err := hooks.Register("order.saved", func(ctx context.Context, o Order) error {
//		return index.Update(ctx, o)
//	}); err != nil {
//		return err
//	}
//
//	if err := hooks.On(ctx, "order.saved", order); err != nil {
//		// errors.Is(err, trigz.ErrNotFound) / trigz.ErrExecution
//	}
//
// Multiple callbacks per name:
//
//	pipeline := trigz.NewPriority[Request]()
//	pipeline.RegisterPriority("before-save", validate, 20)
//	pipeline.RegisterPriority("before-save", enrich, 10)
//	h := pipeline.Register("before-save", audit) // DefaultPriority
//	defer h.Remove()
//
//	// Runs validate, enrich, audit in that order; stops at the first error.
//	err := pipeline.On(ctx, "before-save", req)
//
// Error Handling:
//
// All failures belong to one family. Match kinds with errors.Is
// (ErrNotFound, ErrDuplicate, ErrExecution) or extract the hook name with
// errors.As and *HookError. The library never logs, retries, or swallows
// an error; recovery policy belongs to the embedding application.
//
// Concurrency:
//
// Every registry is safe for concurrent use. Registration state is guarded
// by a read-write mutex; triggers snapshot the callback list and invoke it
// outside the lock, so callbacks may register or unregister hooks on the
// same registry without deadlocking.
package trigz

import (
	"context"

	"github.com/zoobzio/clockz"
)

// Key identifies a hook within a registry. It is a type alias for string
// that encourages package-level constants at registration and trigger sites:
//
//	const (
//		BeforeSave Key = "before-save"
//		AfterSave  Key = "after-save"
//	)
//
// Keys are case-sensitive and matched exactly.
type Key = string

// Callback is the unit of work registered under a hook name. The registry
// passes the trigger's context and payload through untouched and treats a
// non-nil error (or a panic) as the callback's failure.
type Callback[T any] func(context.Context, T) error

// Option configures a registry during creation.
type Option func(*config)

// config holds internal configuration shared by all registry variants.
type config struct {
	clock clockz.Clock // Time abstraction for deterministic testing
}

// WithClock sets the clock implementation used for metrics timestamps.
// Default is clockz.RealClock for production use.
// Use a clockz fake clock for deterministic testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		clock: clockz.RealClock, // default to real clock
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
