package gcarena

import (
	"unsafe"

	"github.com/google/uuid"
)

// Gc is a strong, non-owning, copyable handle into a managed box. Two Gc
// values compare equal when they point at the same box (identity, not
// value). Copying a Gc is trivial and never arms a write barrier — only
// *storing* one into an already-reachable location does, via
// GcCell.Write.
//
// The original parameterizes Gc<'gc, T> by an invariant brand lifetime
// tying it to its owning arena at compile time. Go has no such mechanism;
// here soundness rests entirely on the box's own alive flag, which Value
// checks on every access (the dynamic-epoch replacement called for in the
// design notes).
type Gc[T any] struct {
	box *gcBox[T]
}

// Allocate registers a new box and returns a strong pointer to it. O(1); no
// barrier is required because the new box is born unreachable (White, or
// FreshWhite if a cycle is in flight) and cannot yet be Black.
func Allocate[T any](mc *MutationContext, value T) Gc[T] {
	mc.requireValid()
	box := &gcBox[T]{value: value}
	box.entry.ops = box
	box.entry.alive = true
	box.entry.color = mc.core.allocColor()
	box.entry.needsTrace = needsTraceValue(&box.value, box.value)
	box.entry.arenaID = mc.core.id
	box.entry.size = uint64(unsafe.Sizeof(value))
	mc.core.link(&box.entry)
	mc.core.noteAlloc(box.entry.size)
	return Gc[T]{box: box}
}

// Value returns a pointer to the payload. Panics if the box has already
// been swept.
func (g Gc[T]) Value() *T {
	if g.box == nil || !g.box.entry.alive {
		id := uuidZero
		if g.box != nil {
			id = g.box.entry.arenaID
		}
		panic(errorWithHint(id, "use after free", captureStack(3), hintUseAfterFree))
	}
	return &g.box.value
}

// IsValid reports whether the pointer is non-nil and its target has not
// been swept, without panicking.
func (g Gc[T]) IsValid() bool {
	return g.box != nil && g.box.entry.alive
}

// Equal reports whether g and o refer to the same box (pointer identity).
func (g Gc[T]) Equal(o Gc[T]) bool {
	return g.box == o.box
}

// NeedsTrace is always true for a Gc field: the pointer itself is an edge.
func (g Gc[T]) NeedsTrace() bool { return true }

// Trace enqueues the target for marking: a strong edge always keeps its
// target alive for the current cycle.
func (g Gc[T]) Trace(cc *CollectionContext) {
	if g.box == nil {
		return
	}
	cc.markStrong(&g.box.entry)
}

// Downgrade creates a weak pointer from a strong one. Construction flags
// the target's has_weak_ref bit immediately so sweep knows to account for
// it even if the weak pointer is never traced (e.g. it lives only in an
// Inert-wrapped external structure the collector cannot see into).
func Downgrade[T any](g Gc[T]) GcWeak[T] {
	if g.box != nil {
		g.box.entry.hasWeakRef = true
	}
	return GcWeak[T]{box: g.box}
}

// uuidZero is used for panics that have no MutationContext/arena handy
// (Gc.Value has none — the token authorizing allocation is long gone by
// the time a stray dereference happens).
var uuidZero uuid.UUID
