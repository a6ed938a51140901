package gcarena

// MakeStatic pins gc as permanently reachable for the remainder of the
// arena's life, regardless of whether the ordinary root still reaches it.
// This is the core-side half of the static-root adapter (package
// gcstatic, external to the collector): the adapter calls MakeStatic once
// when it wraps a pointer, then relies on SharedGcData/MutationContext to
// observe the arena's lifecycle from outside the normal Mutate scope.
func MakeStatic[T any](mc *MutationContext, gc Gc[T]) {
	mc.requireValid()
	if gc.box == nil {
		return
	}
	mc.core.pinned = append(mc.core.pinned, func(cc *CollectionContext) {
		cc.markStrong(&gc.box.entry)
	})
}

// MakeStaticCell is MakeStatic for a GcCell root.
func MakeStaticCell[T any](mc *MutationContext, cell GcCell[T]) {
	mc.requireValid()
	if cell.box == nil {
		return
	}
	mc.core.pinned = append(mc.core.pinned, func(cc *CollectionContext) {
		cc.markStrong(&cell.box.entry)
	})
}
