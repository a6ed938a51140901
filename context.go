package gcarena

import (
	"sync"

	"github.com/google/uuid"
)

// MutationContext is the access token passed to a Mutate callback. It
// authorizes allocation, writes through a GcCell, and weak-pointer
// upgrades; it never authorizes direct observation of a box's color.
//
// In the original the token's 'gc lifetime is an invariant brand tied to a
// single callback invocation, so the type system rejects any attempt to
// store it past the callback's return. Go has no equivalent lifetime
// brand, so MutationContext carries a validity bit instead (the dynamic
// "epoch" check called for in the design notes): every operation that
// takes a token calls requireValid first, and the token is invalidated the
// instant its callback returns.
type MutationContext struct {
	core  *arenaCore
	valid bool
}

func (mc *MutationContext) requireValid() {
	if mc == nil || !mc.valid {
		panic(errorWithHint(mc.arenaIDOrZero(), "stale mutation token used", captureStack(3), hintStaleToken))
	}
}

func (mc *MutationContext) arenaIDOrZero() uuid.UUID {
	if mc != nil && mc.core != nil {
		return mc.core.id
	}
	return uuid.UUID{}
}

// SharedData returns the arena's counted shared state. It exists solely so
// the static-root adapter (package gcstatic, external to the core) can
// observe whether the arena is still alive without reaching into arena
// internals.
func (mc *MutationContext) SharedData() *SharedGcData {
	mc.requireValid()
	return mc.core.shared
}

// CollectionContext is the access token passed to Collect.Trace during
// marking. It authorizes enqueueing a managed pointer for tracing but
// never allocation or mutation.
type CollectionContext struct {
	core *arenaCore
}

// markStrong is called by Gc[T].Trace and GcCell[T].Trace: a strong edge
// always keeps its target alive for this cycle. A White or FreshWhite
// target is grayed and pushed onto the work queue; Gray/Black targets are
// already accounted for.
func (cc *CollectionContext) markStrong(e *boxEntry) {
	switch e.color {
	case colorWhite, colorFreshWhite:
		e.color = colorGray
		cc.core.pushGray(e)
	}
}

// markWeak is called by GcWeak[T].Trace and GcWeakCell[T].Trace. A weak
// edge never keeps its target alive and never enqueues it for tracing; it
// only (a) flags the target so sweep knows to clear weak references before
// freeing it, and (b) promotes a FreshWhite target to White so it
// participates in reachability analysis on its own merits next cycle
// instead of escaping collection entirely by virtue of being born
// mid-cycle.
func (cc *CollectionContext) markWeak(e *boxEntry) {
	e.hasWeakRef = true
	if e.color == colorFreshWhite {
		e.color = colorWhite
	}
}

// SharedGcData is a small counted handle describing one arena's lifecycle:
// whether it is still alive, and whether a static-root read is currently in
// progress. It is the Go equivalent of the original's
// Rc<RefCell<SharedGcData>> — here the "counting" is simply Go's ordinary
// GC of the *SharedGcData pointer itself, since nothing about this handle
// needs the managed heap's tracing.
type SharedGcData struct {
	mu         sync.Mutex
	alive      bool
	readLocked bool
}

func newSharedGcData() *SharedGcData {
	return &SharedGcData{alive: true}
}

// Alive reports whether the arena backing this handle has not yet been
// freed.
func (s *SharedGcData) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

func (s *SharedGcData) setAlive(v bool) {
	s.mu.Lock()
	s.alive = v
	s.mu.Unlock()
}

func (s *SharedGcData) readLockedNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked
}

// BeginRead arms the read lock for the duration of a static-root Read
// callback, mirroring the original's read_lock toggling: a nested read
// (the callback itself triggering another Read) is allowed through without
// re-arming or disarming the flag. It reports whether the lock was already
// held, which EndRead needs to decide whether to clear it.
func (s *SharedGcData) BeginRead() (alreadyLocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alreadyLocked = s.readLocked
	if !alreadyLocked {
		s.readLocked = true
	}
	return alreadyLocked
}

// EndRead releases the read lock armed by BeginRead, unless the call was
// nested (alreadyLocked), in which case the outer call owns releasing it.
func (s *SharedGcData) EndRead(alreadyLocked bool) {
	if alreadyLocked {
		return
	}
	s.mu.Lock()
	s.readLocked = false
	s.mu.Unlock()
}
