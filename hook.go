package trigz

// Hook is a handle to one registered callback in a PriorityRegistry or
// ParallelRegistry. It is the identity by which a single callback can be
// removed from a multi-callback name: Go function values are not
// comparable, so removal-by-callback is expressed as removal-by-handle.
//
// Hook handles are returned by Register and RegisterPriority and should be
// stored if the callback needs to be removed individually later.
// Unregister(name) invalidates every handle for that name.
//
// Thread Safety:
// Remove is safe to call concurrently with registry operations, but a
// handle is single-use: each handle should be removed from one goroutine.
//
// Example:
//
//	h := hooks.Register("request.done", logRequest)
//	defer h.Remove()
type Hook struct {
	// remove performs the actual removal. It is set during registration
	// and cleared after the first call so repeated Remove calls are no-ops.
	remove func() bool
}

// Remove deletes this handle's callback from its hook, leaving any other
// callbacks registered under the same name intact. It reports whether the
// callback list shrank: false when the handle was already removed, or when
// the whole name was removed by Unregister in the meantime.
func (h *Hook) Remove() bool {
	if h.remove == nil {
		return false
	}
	removed := h.remove()
	h.remove = nil
	return removed
}
