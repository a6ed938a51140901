package gcarena

// GcWeakCell is the weak counterpart of GcCell, with the identical
// trace/upgrade contract as GcWeak but over a mutable-cell box. Grounded on
// the original's gc_weak_cell.rs.
type GcWeakCell[T any] struct {
	box *gcCellBox[T]
}

// NeedsTrace is always true, for the same reason as GcWeak.
func (w GcWeakCell[T]) NeedsTrace() bool { return true }

// Trace flags the target and promotes it out of FreshWhite, never
// enqueuing it for marking.
func (w GcWeakCell[T]) Trace(cc *CollectionContext) {
	if w.box == nil {
		return
	}
	cc.markWeak(&w.box.entry)
}

// Upgrade returns a strong GcCell pointer to the target, or false if it has
// already been swept.
func (w GcWeakCell[T]) Upgrade(mc *MutationContext) (GcCell[T], bool) {
	mc.requireValid()
	if w.box == nil || !w.box.entry.alive {
		return GcCell[T]{}, false
	}
	return GcCell[T]{box: w.box}, true
}

// IsValid reports whether the referenced box is non-nil and alive, without
// requiring a token.
func (w GcWeakCell[T]) IsValid() bool {
	return w.box != nil && w.box.entry.alive
}
