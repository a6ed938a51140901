package gcarena

import "unsafe"

// GcCell is a managed box whose payload offers borrow-checked interior
// mutation. It is itself a managed box — a struct can hold a GcCell field
// directly, the same way the original defines GcCell<'gc, T> as
// Gc<'gc, RefCell<T>> rather than layering a separate allocation on top of
// Gc.
type GcCell[T any] struct {
	box *gcCellBox[T]
}

// AllocateCell registers a new mutable-cell box.
func AllocateCell[T any](mc *MutationContext, value T) GcCell[T] {
	mc.requireValid()
	box := &gcCellBox[T]{value: value}
	box.entry.ops = box
	box.entry.alive = true
	box.entry.color = mc.core.allocColor()
	box.entry.needsTrace = needsTraceValue(&box.value, box.value)
	box.entry.arenaID = mc.core.id
	box.entry.size = uint64(unsafe.Sizeof(value))
	mc.core.link(&box.entry)
	mc.core.noteAlloc(box.entry.size)
	return GcCell[T]{box: box}
}

func (c GcCell[T]) requireAlive() {
	if c.box == nil || !c.box.entry.alive {
		id := uuidZero
		if c.box != nil {
			id = c.box.entry.arenaID
		}
		panic(errorWithHint(id, "use after free", captureStack(4), hintUseAfterFree))
	}
}

// CellReadGuard is a shared borrow of a GcCell's payload, obtained through
// Read. Close it (typically via defer) to release the borrow.
type CellReadGuard[T any] struct {
	box *gcCellBox[T]
}

// Value returns a pointer to the payload for the duration of the borrow.
func (g *CellReadGuard[T]) Value() *T { return &g.box.value }

// Close releases the shared borrow.
func (g *CellReadGuard[T]) Close() {
	if g.box.borrow > 0 {
		g.box.borrow--
	}
}

// Read takes a shared borrow of the cell's payload. Panics if an exclusive
// borrow is currently outstanding.
func (c GcCell[T]) Read() *CellReadGuard[T] {
	c.requireAlive()
	if c.box.borrow < 0 {
		panic(errorWithHint(c.box.entry.arenaID, "GcCell borrowed exclusively", captureStack(3), hintBorrowConflict))
	}
	c.box.borrow++
	return &CellReadGuard[T]{box: c.box}
}

// CellWriteGuard is an exclusive borrow of a GcCell's payload, obtained
// through Write. Close it (typically via defer) to release the borrow.
type CellWriteGuard[T any] struct {
	box *gcCellBox[T]
}

// Value returns a pointer to the payload for the duration of the borrow.
func (g *CellWriteGuard[T]) Value() *T { return &g.box.value }

// Close releases the exclusive borrow.
func (g *CellWriteGuard[T]) Close() {
	g.box.borrow = 0
}

// Write takes an exclusive borrow of the cell's payload, arming the
// forward write barrier first: if the cell is currently Black, it is
// re-grayed so any pointer the caller is about to store into it is visited
// on the next incremental step. Panics if any borrow (shared or exclusive)
// is already outstanding.
func (c GcCell[T]) Write(mc *MutationContext) *CellWriteGuard[T] {
	mc.requireValid()
	c.requireAlive()
	if c.box.borrow != 0 {
		panic(errorWithHint(c.box.entry.arenaID, "GcCell already borrowed", captureStack(3), hintBorrowConflict))
	}
	c.box.borrow = -1
	mc.core.writeBarrier(&c.box.entry)
	return &CellWriteGuard[T]{box: c.box}
}

// IsValid reports whether the cell is non-nil and has not been swept.
func (c GcCell[T]) IsValid() bool {
	return c.box != nil && c.box.entry.alive
}

// Equal reports whether c and o refer to the same box.
func (c GcCell[T]) Equal(o GcCell[T]) bool {
	return c.box == o.box
}

// NeedsTrace is always true: a GcCell field is itself an edge.
func (c GcCell[T]) NeedsTrace() bool { return true }

// Trace enqueues the cell for marking.
func (c GcCell[T]) Trace(cc *CollectionContext) {
	if c.box == nil {
		return
	}
	cc.markStrong(&c.box.entry)
}

// DowngradeCell creates a weak cell pointer from a strong one.
func DowngradeCell[T any](c GcCell[T]) GcWeakCell[T] {
	if c.box != nil {
		c.box.entry.hasWeakRef = true
	}
	return GcWeakCell[T]{box: c.box}
}
