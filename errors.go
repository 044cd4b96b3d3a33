package trigz

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure a registry returns wraps exactly one of these
// sentinels inside a *HookError, so callers can branch broadly
// (errors.As(*HookError)) or narrowly (errors.Is against a kind).

// ErrNotFound is returned by On when no callback is registered under the
// triggered name. For the list-based registries this includes names whose
// callback list has been emptied by removal.
var ErrNotFound = errors.New("no hook registered")

// ErrDuplicate is returned by Registry.Register (and therefore
// ScopedRegistry.Register) when the name already has a callback. The first
// registration is retained unchanged.
//
// PriorityRegistry and ParallelRegistry never return this: multiple
// callbacks per name is their supported use.
var ErrDuplicate = errors.New("hook already registered")

// ErrExecution is returned by On when an invoked callback returns a non-nil
// error or panics. The wrapped message carries the hook name and the
// original failure's message; the original error also remains in the
// Unwrap chain.
var ErrExecution = errors.New("hook execution failed")

// errUnknown stands in for panic values that are not errors, so the
// reported cause is never empty.
var errUnknown = errors.New("unknown error")

// HookError is the error family shared by all registry variants. It carries
// the hook name the failure belongs to and wraps one of the sentinel kinds
// above (plus, for ErrExecution, the callback's own error).
//
// Example:
//
//	if err := hooks.On(ctx, "before-save", doc); err != nil {
//		var herr *trigz.HookError
//		if errors.As(err, &herr) && errors.Is(err, trigz.ErrNotFound) {
//			log.Printf("nothing registered for %s", herr.Hook)
//		}
//	}
type HookError struct {
	// Err is the wrapped kind, possibly chained with the callback's cause.
	Err error

	// Hook is the name the failing operation targeted. For ScopedRegistry
	// it is the fully prefixed name as stored in the inner registry.
	Hook string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %q: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// notFoundError reports a trigger against an unregistered name.
func notFoundError(hook string) error {
	return &HookError{Hook: hook, Err: ErrNotFound}
}

// duplicateError reports a second registration against a taken name.
func duplicateError(hook string) error {
	return &HookError{Hook: hook, Err: ErrDuplicate}
}

// executionError wraps a callback failure. The cause stays in the Unwrap
// chain so callers can still match their own sentinel errors through the
// registry boundary.
func executionError(hook string, cause error) error {
	return &HookError{Hook: hook, Err: fmt.Errorf("%w: %w", ErrExecution, cause)}
}
