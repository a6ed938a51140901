package gcarena

import "github.com/google/uuid"

// gcColor is the tri-color (plus FreshWhite) mark used by the incremental
// collector. This is the four-color encoding named in the design notes:
// White/Gray/Black for the classic tri-color invariant, plus FreshWhite for
// boxes born during the current cycle's Propagate/Sweep phases.
type gcColor uint8

const (
	colorWhite gcColor = iota
	colorGray
	colorBlack
	colorFreshWhite
)

func (c gcColor) String() string {
	switch c {
	case colorWhite:
		return "white"
	case colorGray:
		return "gray"
	case colorBlack:
		return "black"
	case colorFreshWhite:
		return "fresh-white"
	default:
		return "unknown"
	}
}

// boxOps is implemented by every instantiation of gcBox[T] / gcCellBox[T],
// giving the arena's intrusive list a uniform way to trace and finalize
// heterogeneous payload types without reflection on the hot path.
type boxOps interface {
	trace(cc *CollectionContext)
	finalize()
}

// boxEntry is the GC header shared by every managed box: color, flags, and
// the intrusive next-pointer that forms the arena's list of every box,
// newest allocation first.
type boxEntry struct {
	color      gcColor
	needsTrace bool
	hasWeakRef bool
	alive      bool
	arenaID    uuid.UUID
	size       uint64
	next       *boxEntry
	ops        boxOps
}

// finalizable is the opt-in destructor hook for managed payloads. Per the
// finalization contract (spec §4.4), Finalize must not dereference any
// managed pointer it owns: by the time it runs those targets may already be
// freed or mid-sweep.
type finalizable interface {
	Finalize()
}

// runFinalizer checks the pointer form only: a pointer's method set is a
// superset of its value's, so checking both would double-invoke a
// value-receiver Finalize.
func runFinalizer(ptr any) {
	if f, ok := ptr.(finalizable); ok {
		f.Finalize()
	}
}

// traceValue visits v's Collect implementation if it has one, checking the
// pointer form first so pointer-receiver Trace/NeedsTrace methods are
// honored. Types with no Collect implementation are treated as inert —
// the Go equivalent of the original's blanket primitive impls.
func traceValue(ptr, val any, cc *CollectionContext) {
	if c, ok := ptr.(Collect); ok {
		c.Trace(cc)
		return
	}
	if c, ok := val.(Collect); ok {
		c.Trace(cc)
	}
}

func needsTraceValue(ptr, val any) bool {
	if c, ok := ptr.(Collect); ok {
		return c.NeedsTrace()
	}
	if c, ok := val.(Collect); ok {
		return c.NeedsTrace()
	}
	return false
}

// gcBox is the managed box backing a Gc[T] strong pointer.
type gcBox[T any] struct {
	entry boxEntry
	value T
}

func (b *gcBox[T]) trace(cc *CollectionContext) {
	traceValue(&b.value, b.value, cc)
}

func (b *gcBox[T]) finalize() {
	runFinalizer(&b.value)
	var zero T
	b.value = zero
}

// gcCellBox is the managed box backing a GcCell[T]: a box plus a dynamic
// borrow counter (0 = free, -1 = exclusively borrowed, n>0 = n shared
// readers).
type gcCellBox[T any] struct {
	entry  boxEntry
	value  T
	borrow int32
}

func (b *gcCellBox[T]) trace(cc *CollectionContext) {
	traceValue(&b.value, b.value, cc)
}

func (b *gcCellBox[T]) finalize() {
	runFinalizer(&b.value)
	var zero T
	b.value = zero
}
