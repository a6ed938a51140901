package gcarena

// GcWeak is a non-owning, non-retaining reference to a managed box: it does
// not count as an incoming edge for reachability, and upgrading it yields a
// strong pointer only if the target is still alive.
//
// Grounded directly on the original's gc_weak.rs: tracing a weak pointer
// never recurses into its target, but still flags has_weak_ref and
// promotes a FreshWhite target to White so it neither escapes collection
// nor is spuriously kept alive.
type GcWeak[T any] struct {
	box *gcBox[T]
}

// NeedsTrace is always true: even though a weak edge does not retain its
// target, the weak pointer itself must still be visited so its target gets
// flagged has_weak_ref and, if FreshWhite, promoted.
func (w GcWeak[T]) NeedsTrace() bool { return true }

// Trace flags the target and promotes it out of FreshWhite, but never
// enqueues it for marking.
func (w GcWeak[T]) Trace(cc *CollectionContext) {
	if w.box == nil {
		return
	}
	cc.markWeak(&w.box.entry)
}

// Upgrade returns a strong pointer to the target, or false if the target
// has already been swept. The token is required even though upgrade itself
// performs no allocation, because producing a new strong edge into the
// graph is a mutation-shaped operation: whatever container the caller goes
// on to store the result into will need to go through GcCell.Write to arm
// the barrier, same as storing any other Gc.
func (w GcWeak[T]) Upgrade(mc *MutationContext) (Gc[T], bool) {
	mc.requireValid()
	if w.box == nil || !w.box.entry.alive {
		return Gc[T]{}, false
	}
	return Gc[T]{box: w.box}, true
}

// IsValid reports whether the referenced box is non-nil and alive, without
// requiring a token.
func (w GcWeak[T]) IsValid() bool {
	return w.box != nil && w.box.entry.alive
}
