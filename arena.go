package gcarena

import (
	"math"

	"github.com/google/uuid"
)

type gcPhase int

const (
	phaseSleep gcPhase = iota
	phasePropagate
	phaseSweep
)

func (p gcPhase) String() string {
	switch p {
	case phaseSleep:
		return "sleep"
	case phasePropagate:
		return "propagate"
	case phaseSweep:
		return "sweep"
	default:
		return "unknown"
	}
}

// arenaCore is the non-generic heart of an Arena: every piece of state the
// collector touches that does not depend on the root's type R. Splitting
// this out of Arena[R] is what lets MutationContext and CollectionContext
// (which never need to know R) be plain, non-generic types — mirroring how
// the original's MutationContext<'gc, '_> carries no Root type parameter
// either.
type arenaCore struct {
	id     uuid.UUID
	params ArenaParameters
	shared *SharedGcData

	head     *boxEntry
	gray     []*boxEntry
	phase    gcPhase
	sweepPtr **boxEntry

	liveBytes uint64
	boxCount  int
	debt      float64

	mutating bool

	rootTracer func(cc *CollectionContext)
	pinned     []func(cc *CollectionContext)
}

func (c *arenaCore) panicf(errorType, hint string) string {
	return errorWithHint(c.id, errorType, captureStack(3), hint)
}

func (c *arenaCore) pushGray(e *boxEntry) {
	c.gray = append(c.gray, e)
}

// writeBarrier is the forward (Dijkstra-style) write barrier: if the
// container box being written through is Black, it is re-grayed and
// re-enqueued so the tri-color invariant (no Black box holds an edge to a
// White box between steps) is preserved across the write.
func (c *arenaCore) writeBarrier(e *boxEntry) {
	if e.color == colorBlack {
		e.color = colorGray
		c.pushGray(e)
	}
}

func (c *arenaCore) noteAlloc(size uint64) {
	c.liveBytes += size
	c.boxCount++
	c.debt += float64(size) * c.params.PauseFactor
}

// allocColor is the color a newly allocated box is born with: plain White
// when no cycle is in flight, FreshWhite when one is — so the box is held
// over the current cycle's sweep regardless of whether it becomes
// reachable in time (the "boundary: box allocated during marking" case).
func (c *arenaCore) allocColor() gcColor {
	if c.phase == phaseSleep {
		return colorWhite
	}
	return colorFreshWhite
}

func (c *arenaCore) link(e *boxEntry) {
	e.next = c.head
	c.head = e
}

// beginCycle starts a new Propagate phase: the gray queue is reset and
// re-seeded from the root (and any pinned static roots), exactly as "at the
// start of the next cycle, re-grey the root" in §4.4.
func (c *arenaCore) beginCycle() {
	c.phase = phasePropagate
	c.gray = c.gray[:0]
	cc := &CollectionContext{core: c}
	if c.rootTracer != nil {
		c.rootTracer(cc)
	}
	for _, pin := range c.pinned {
		pin(cc)
	}
}

func (c *arenaCore) beginSweep() {
	c.phase = phaseSweep
	c.sweepPtr = &c.head
}

// propagateStep pops one Gray box, traces it if needed, and colors it
// Black. It returns false once the gray queue is empty, at which point the
// caller transitions to Sweep.
func (c *arenaCore) propagateStep() bool {
	if len(c.gray) == 0 {
		return false
	}
	e := c.gray[len(c.gray)-1]
	c.gray = c.gray[:len(c.gray)-1]
	if e.color != colorGray {
		// Already retired by a later write-barrier re-push; nothing to do.
		return true
	}
	if e.needsTrace {
		cc := &CollectionContext{core: c}
		e.ops.trace(cc)
	}
	e.color = colorBlack
	return true
}

// sweepStep advances the intrusive-list walk by one box. Black boxes
// become next cycle's White candidates; FreshWhite boxes are promoted to
// White so they survive into next cycle undisturbed; Gray boxes are
// treated the same as Black (a box the sweep cursor hasn't reached yet can
// be re-grayed by the write barrier between CollectDebt calls — see
// writeBarrier — and must not be swept as garbage just because the cursor
// observes it before a propagate step retires it back to Black); White
// boxes are unreachable and are unlinked, finalized, and freed. It returns
// false once the walk reaches the end of the list, at which point the
// collector goes back to Sleep.
func (c *arenaCore) sweepStep() bool {
	cur := *c.sweepPtr
	if cur == nil {
		c.phase = phaseSleep
		c.sweepPtr = nil
		return false
	}

	switch cur.color {
	case colorBlack, colorGray:
		cur.color = colorWhite
		c.sweepPtr = &cur.next
	case colorFreshWhite:
		cur.color = colorWhite
		c.sweepPtr = &cur.next
	default: // colorWhite
		if cur.hasWeakRef {
			// Clear alive before unlinking so any upgrade() racing this
			// step (there is none within a single goroutine, but the
			// ordering documents the invariant) observes a dead target
			// rather than a half-freed one.
			cur.alive = false
		}
		*c.sweepPtr = cur.next
		cur.alive = false
		c.liveBytes -= cur.size
		c.boxCount--
		cur.ops.finalize()
	}
	return true
}

// runSteps performs collector work until budget units have been spent or
// the collector returns to Sleep, whichever comes first.
func (c *arenaCore) runSteps(budget float64) {
	spent := 0.0
	for spent < budget {
		switch c.phase {
		case phaseSleep:
			return
		case phasePropagate:
			if !c.propagateStep() {
				c.beginSweep()
			}
		case phaseSweep:
			if !c.sweepStep() {
				return
			}
		}
		spent++
	}
}

func (c *arenaCore) collectDebt() {
	if c.phase == phaseSleep {
		threshold := float64(c.params.MinSleep)
		if live := float64(c.liveBytes) * c.params.PauseFactor; live > threshold {
			threshold = live
		}
		if c.debt < threshold {
			return
		}
		c.beginCycle()
	}
	budget := c.debt * c.params.TimingFactor
	if budget < 1 {
		budget = 1
	}
	c.debt = 0
	c.runSteps(budget)
}

func (c *arenaCore) collectAll() {
	if c.phase == phaseSleep {
		c.beginCycle()
	}
	c.debt = 0
	c.runSteps(math.Inf(1))
}

func (c *arenaCore) metrics() Metrics {
	return Metrics{
		LiveBytes:   c.liveBytes,
		PendingDebt: c.debt,
		Phase:       c.phase.String(),
		BoxCount:    c.boxCount,
	}
}

// free sweeps every remaining box unconditionally, the way dropping the
// arena does in the original (no second collect_all is needed: Drop is not
// constrained by reachability, everything still outstanding is freed).
func (c *arenaCore) free() {
	if !c.shared.Alive() {
		panic(c.panicf("arena freed twice", hintDoubleFree))
	}
	if c.shared.readLockedNow() {
		panic(c.panicf("arena freed while a static-root read was in progress", hintStaticRootReadBusy))
	}

	for e := c.head; e != nil; {
		next := e.next
		e.alive = false
		e.ops.finalize()
		e = next
	}
	c.head = nil
	c.liveBytes = 0
	c.boxCount = 0
	c.shared.setAlive(false)
}

// Arena owns the managed heap, the root object, and drives incremental
// collection. R is the (typically struct-of-Gc/GcCell) root type produced
// by New's init callback.
type Arena[R any] struct {
	core *arenaCore
	root R
}

// New creates an arena, running init with a fresh MutationContext to
// produce the root value.
func New[R any](params ArenaParameters, init func(mc *MutationContext) R) *Arena[R] {
	core := &arenaCore{
		id:     uuid.New(),
		params: params.withDefaults(),
		shared: newSharedGcData(),
		phase:  phaseSleep,
	}

	core.mutating = true
	mc := &MutationContext{core: core, valid: true}
	root := init(mc)
	mc.valid = false
	core.mutating = false

	core.rootTracer = func(cc *CollectionContext) {
		traceValue(&root, root, cc)
	}

	return &Arena[R]{core: core, root: root}
}

// Mutate borrows the arena mutably and invokes f with a fresh
// MutationContext and a view of the root. Recursively calling Mutate on the
// same arena panics.
func (a *Arena[R]) Mutate(f func(mc *MutationContext, root R)) {
	core := a.core
	if core.mutating {
		panic(core.panicf("recursive Mutate call", hintRecursiveMutate))
	}
	core.mutating = true
	mc := &MutationContext{core: core, valid: true}
	defer func() {
		mc.valid = false
		core.mutating = false
	}()
	f(mc, a.root)
}

// CollectDebt advances the collector by an amount proportional to accrued
// allocation debt.
func (a *Arena[R]) CollectDebt() { a.core.collectDebt() }

// CollectAll runs collection to completion. Two calls are typically needed
// to reclaim objects that were freshly allocated (FreshWhite) during the
// first.
func (a *Arena[R]) CollectAll() { a.core.collectAll() }

// Metrics reports live bytes and pending debt.
func (a *Arena[R]) Metrics() Metrics { return a.core.metrics() }

// Free tears the arena down immediately: every outstanding box is
// finalized regardless of color or reachability, and the arena is marked
// dead for any static roots watching it. Panics if called twice, or from
// inside a static root's Read callback.
func (a *Arena[R]) Free() { a.core.free() }
