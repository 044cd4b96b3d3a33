package trigz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestRegisterAndTrigger(t *testing.T) {
	hooks := New[string]()

	var received string
	err := hooks.Register("doc.saved", func(ctx context.Context, data string) error {
		received = data
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	if err := hooks.On(context.Background(), "doc.saved", "doc-42"); err != nil {
		t.Fatalf("Failed to trigger hook: %v", err)
	}

	if received != "doc-42" {
		t.Errorf("Expected 'doc-42', got '%s'", received)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	hooks := New[int]()

	first := 0
	if err := hooks.Register("count", func(ctx context.Context, n int) error {
		first = n
		return nil
	}); err != nil {
		t.Fatalf("Failed to register first hook: %v", err)
	}

	err := hooks.Register("count", func(ctx context.Context, n int) error {
		t.Error("Second registration should never execute")
		return nil
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}

	var herr *HookError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HookError, got %T", err)
	}
	if herr.Hook != "count" {
		t.Errorf("Expected hook name 'count', got '%s'", herr.Hook)
	}

	// First registration must be retained unchanged
	if err := hooks.On(context.Background(), "count", 7); err != nil {
		t.Fatalf("Failed to trigger hook: %v", err)
	}
	if first != 7 {
		t.Errorf("Expected first callback to receive 7, got %d", first)
	}
}

func TestTriggerUnregisteredName(t *testing.T) {
	hooks := New[string]()

	err := hooks.On(context.Background(), "nope", "data")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("Expected error message to contain hook name, got %q", err.Error())
	}
}

func TestUnregisterRoundTrip(t *testing.T) {
	hooks := New[string]()

	fn := func(ctx context.Context, data string) error { return nil }
	if err := hooks.Register("save", fn); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	if !hooks.Has("save") {
		t.Error("Expected Has to be true after registration")
	}
	if !hooks.Unregister("save") {
		t.Error("Expected Unregister to report removal")
	}
	if hooks.Has("save") {
		t.Error("Expected Has to be false after unregister")
	}
	if hooks.Unregister("save") {
		t.Error("Expected second Unregister to report no removal")
	}

	// No residual duplicate state: registering again must succeed
	if err := hooks.Register("save", fn); err != nil {
		t.Fatalf("Expected re-registration to succeed, got %v", err)
	}
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	hooks := New[struct{}]()

	noop := func(ctx context.Context, _ struct{}) error { return nil }
	for _, name := range []string{"c", "a", "b"} {
		if err := hooks.Register(name, noop); err != nil {
			t.Fatalf("Failed to register %s: %v", name, err)
		}
	}

	got := hooks.List()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected List()[%d] = %s, got %s", i, want[i], got[i])
		}
	}

	hooks.Unregister("a")
	got = hooks.List()
	want = []string{"c", "b"}
	if len(got) != len(want) || got[0] != "c" || got[1] != "b" {
		t.Errorf("Expected List() = %v after unregister, got %v", want, got)
	}
}

func TestExecutionErrorWrapping(t *testing.T) {
	hooks := New[string]()

	boom := errors.New("boom")
	if err := hooks.Register("x", func(ctx context.Context, data string) error {
		return boom
	}); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	err := hooks.On(context.Background(), "x", "data")
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Expected ErrExecution, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected cause to remain in the error chain, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "x") || !strings.Contains(msg, "boom") {
		t.Errorf("Expected message to contain hook name and cause, got %q", msg)
	}
}

func TestPanicBecomesExecutionError(t *testing.T) {
	hooks := New[string]()

	cause := errors.New("exploded")
	if err := hooks.Register("panics.error", func(ctx context.Context, data string) error {
		panic(cause)
	}); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}
	if err := hooks.Register("panics.value", func(ctx context.Context, data string) error {
		panic(42)
	}); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	err := hooks.On(context.Background(), "panics.error", "data")
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Expected ErrExecution from panicking hook, got %v", err)
	}
	if !strings.Contains(err.Error(), "exploded") {
		t.Errorf("Expected panic error message to survive, got %q", err.Error())
	}

	err = hooks.On(context.Background(), "panics.value", "data")
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Expected ErrExecution from panicking hook, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown error") {
		t.Errorf("Expected generic message for non-error panic, got %q", err.Error())
	}
}

func TestCallbackReceivesContext(t *testing.T) {
	hooks := New[string]()

	type ctxKey struct{}
	if err := hooks.Register("ctx", func(ctx context.Context, data string) error {
		if ctx.Value(ctxKey{}) != "present" {
			return fmt.Errorf("context value missing")
		}
		return nil
	}); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "present")
	if err := hooks.On(ctx, "ctx", "data"); err != nil {
		t.Fatalf("Expected context to be passed through, got %v", err)
	}
}

func TestConcurrentRegistryAccess(t *testing.T) {
	hooks := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("hook.%d", i)
			if err := hooks.Register(name, func(ctx context.Context, n int) error { return nil }); err != nil {
				t.Errorf("Failed to register %s: %v", name, err)
				return
			}
			if err := hooks.On(context.Background(), name, i); err != nil {
				t.Errorf("Failed to trigger %s: %v", name, err)
			}
			hooks.Has(name)
			hooks.List()
			hooks.Unregister(name)
		}(i)
	}
	wg.Wait()

	if len(hooks.List()) != 0 {
		t.Errorf("Expected empty registry after concurrent round trips, got %v", hooks.List())
	}
}

func TestCallbackMayReenterRegistry(t *testing.T) {
	hooks := New[string]()

	if err := hooks.Register("outer", func(ctx context.Context, data string) error {
		// Registering from inside a trigger must not deadlock
		return hooks.Register("inner", func(ctx context.Context, data string) error { return nil })
	}); err != nil {
		t.Fatalf("Failed to register hook: %v", err)
	}

	if err := hooks.On(context.Background(), "outer", "data"); err != nil {
		t.Fatalf("Failed to trigger hook: %v", err)
	}
	if !hooks.Has("inner") {
		t.Error("Expected re-entrant registration to take effect")
	}
}
