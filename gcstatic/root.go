// Package gcstatic is the static-root adapter: a way to hold a managed
// pointer outside of any Arena.Mutate callback — in a package-level
// variable, a long-lived struct field, anywhere a plain Go reference would
// go — while still respecting the arena's lifecycle. It is deliberately
// external to the core collector package: gcarena supplies only the hooks
// it needs (MakeStatic/MakeStaticCell and SharedGcData's lifecycle and
// read-lock state), the same way the original's static_gc!/
// static_gc_cell! macros layer on top of the crate rather than inside it.
//
// A static root is a dangerous convenience: the pointer it wraps outlives
// the MutationContext that produced it, so every access has to re-check
// that the owning arena is still alive. Root and RootCell do that check on
// every Read; using one after its arena has been freed panics rather than
// reading swept memory.
package gcstatic

import "github.com/arenagc/gcarena"

// Root holds a Gc[T] pointer alive for as long as its owning arena is,
// independent of whether the arena's ordinary root still reaches it.
type Root[T any] struct {
	shared *gcarena.SharedGcData
	target gcarena.Gc[T]
}

// Wrap pins target as a static root: the collector will treat it as
// permanently reachable until the arena backing mc is freed, even if
// nothing else in the managed graph points to it.
func Wrap[T any](mc *gcarena.MutationContext, target gcarena.Gc[T]) Root[T] {
	gcarena.MakeStatic(mc, target)
	return Root[T]{shared: mc.SharedData(), target: target}
}

// Read invokes f with the wrapped pointer, bracketed by the arena's
// read-lock: while f runs, Arena.Free on the owning arena panics instead of
// tearing the heap down underneath the callback. Panics up front if the
// arena has already been freed.
func (r Root[T]) Read(f func(gcarena.Gc[T])) {
	if !r.shared.Alive() {
		panic(staticRootDeadMessage)
	}
	already := r.shared.BeginRead()
	defer r.shared.EndRead(already)
	f(r.target)
}

// Alive reports whether the arena backing this root has not yet been
// freed, without panicking.
func (r Root[T]) Alive() bool {
	return r.shared.Alive()
}

// RootCell is Root for a GcCell target: a static root over interior-mutable
// state.
type RootCell[T any] struct {
	shared *gcarena.SharedGcData
	target gcarena.GcCell[T]
}

// WrapCell pins a GcCell as a static root.
func WrapCell[T any](mc *gcarena.MutationContext, target gcarena.GcCell[T]) RootCell[T] {
	gcarena.MakeStaticCell(mc, target)
	return RootCell[T]{shared: mc.SharedData(), target: target}
}

// Read invokes f with the wrapped cell, under the same arena read-lock
// bracketing as Root.Read.
func (r RootCell[T]) Read(f func(gcarena.GcCell[T])) {
	if !r.shared.Alive() {
		panic(staticRootDeadMessage)
	}
	already := r.shared.BeginRead()
	defer r.shared.EndRead(already)
	f(r.target)
}

// Alive reports whether the arena backing this root has not yet been
// freed, without panicking.
func (r RootCell[T]) Alive() bool {
	return r.shared.Alive()
}

const staticRootDeadMessage = "gcstatic: Read called on a static root whose arena has already been freed\n\n  \U0001F4A1 Hint: a static root cannot outlive its arena; make sure every gcstatic.Root/RootCell is dropped (or never read again) before or alongside Arena.Free()."
