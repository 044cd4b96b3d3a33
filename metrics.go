package trigz

import (
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
)

// Metrics provides observability data for a registry. It is a point-in-time
// snapshot returned by each registry's Metrics method; counters accumulate
// over the registry's lifetime.
type Metrics struct {
	// LastTrigger is the clock reading taken when On (or OnConcurrent)
	// last completed. Zero until the first trigger against a registered
	// name; NotFound triggers do not count.
	LastTrigger time.Time

	// Registration Metrics
	RegisteredHooks int64 // Currently registered callbacks (requires mutex read)

	// Trigger Counters
	TriggersProcessed int64 // Completed triggers, successful or not
	TriggersFailed    int64 // Triggers that returned an execution failure

	// Callback Counters
	CallbacksExecuted int64 // Callback invocations that started
	CallbacksFailed   int64 // Callback invocations that returned an error or panicked
}

// counters is the live, atomically updated backing store shared by all
// registry variants. RegisteredHooks lives on the registry itself because
// it is already guarded by the registration mutex.
type counters struct {
	triggersProcessed int64
	triggersFailed    int64
	callbacksExecuted int64
	callbacksFailed   int64
	lastTrigger       int64 // unix nanoseconds; 0 means never triggered
}

// callbackDone records one finished callback invocation.
func (c *counters) callbackDone(failed bool) {
	atomic.AddInt64(&c.callbacksExecuted, 1)
	if failed {
		atomic.AddInt64(&c.callbacksFailed, 1)
	}
}

// triggerDone records one finished trigger and stamps the clock.
func (c *counters) triggerDone(clock clockz.Clock, failed bool) {
	atomic.AddInt64(&c.triggersProcessed, 1)
	if failed {
		atomic.AddInt64(&c.triggersFailed, 1)
	}
	atomic.StoreInt64(&c.lastTrigger, clock.Now().UnixNano())
}

// snapshot assembles a Metrics value from the atomic counters plus the
// caller-supplied registration count.
func (c *counters) snapshot(registered int64) Metrics {
	m := Metrics{
		RegisteredHooks:   registered,
		TriggersProcessed: atomic.LoadInt64(&c.triggersProcessed),
		TriggersFailed:    atomic.LoadInt64(&c.triggersFailed),
		CallbacksExecuted: atomic.LoadInt64(&c.callbacksExecuted),
		CallbacksFailed:   atomic.LoadInt64(&c.callbacksFailed),
	}
	if ns := atomic.LoadInt64(&c.lastTrigger); ns != 0 {
		m.LastTrigger = time.Unix(0, ns)
	}
	return m
}
