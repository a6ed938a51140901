// Package gcarena provides an incremental, tracing garbage collector for
// building cyclic managed-object graphs in Go, with the collector's safety
// discipline enforced by runtime checks rather than a borrow checker.
//
// # Overview
//
// Go already has a garbage collector, so gcarena is not for general-purpose
// allocation. It is for the specific case of an embedded object graph —
// interpreters, game object graphs, scene graphs, anything that wants
// arbitrary cycles reclaimed deterministically on the host's schedule
// rather than whenever the runtime GC gets around to it — without paying
// for a second, independent GC implementation's worth of bugs. gcarena
// wraps a single-threaded tri-color mark-and-sweep collector behind
// type-safe handles that panic loudly on misuse instead of corrupting the
// heap silently.
//
// # Quick Start
//
//	type Root struct {
//	    Counter gcarena.GcCell[int]
//	}
//
//	// Root must implement Collect, or the collector cannot see Counter.
//	func (r Root) NeedsTrace() bool                    { return true }
//	func (r Root) Trace(cc *gcarena.CollectionContext) { r.Counter.Trace(cc) }
//
//	arena := gcarena.New(gcarena.DefaultArenaParameters(), func(mc *gcarena.MutationContext) Root {
//	    return Root{Counter: gcarena.AllocateCell(mc, 0)}
//	})
//
//	arena.Mutate(func(mc *gcarena.MutationContext, root Root) {
//	    g := root.Counter.Write(mc)
//	    defer g.Close()
//	    *g.Value()++
//	})
//
//	arena.CollectDebt() // pay down a slice of accrued allocation debt
//
// # Core Concepts
//
// Arena: owns the managed heap, the root, and drives collection. Create
// with New, or use Rootless for a throwaway arena in tests.
//
// Gc[T] / GcCell[T]: strong, copyable handles into a managed box. Gc is
// read-only once allocated; GcCell adds borrow-checked interior mutation
// with a write barrier armed on every Write.
//
// GcWeak[T] / GcWeakCell[T]: non-retaining references that upgrade back to
// a strong handle only while the target is alive.
//
// MutationContext / CollectionContext: access tokens. A MutationContext
// authorizes allocation, cell writes, and weak upgrades; a
// CollectionContext authorizes only enqueueing a pointer for tracing. Both
// are only valid for the duration of the callback that received them.
//
// # Safety Guarantees
//
// gcarena prevents the memory-safety bugs a hand-rolled tracing collector
// would otherwise risk:
//
//  1. Use-after-sweep: dereferencing a Gc/GcCell whose box has already been
//     freed panics with a hint instead of reading freed memory.
//  2. Double-free: freeing an arena twice panics.
//  3. Borrow conflicts: taking a second exclusive (or a shared-while-
//     exclusive) borrow of a GcCell panics instead of aliasing a `*T`.
//  4. Stale tokens: using a MutationContext after its callback has
//     returned panics instead of silently mutating the heap. A
//     CollectionContext carries no such check.
//  5. Recursive mutation: calling Mutate again from inside an active
//     Mutate callback on the same arena panics instead of re-entering the
//     collector mid-step.
//
// All panics include a captured stack frame and a hint for fixing the
// issue, in the spirit of a helpful compiler error.
//
// # Performance
//
// The collector is incremental: CollectDebt performs a bounded slice of
// marking/sweeping work proportional to allocation debt accrued since the
// last step, so a steady allocation rate sees bounded per-call pause times
// rather than one large stop-the-world pause. Each CollectAll call runs one
// cycle to completion (call it twice to also reclaim FreshWhite survivors
// of the first), for tests and shutdown paths where determinism matters
// more than latency.
//
// # Patterns
//
// Request-scoped graph, with a throwaway arena per request:
//
//	func handleRequest(req Request) Response {
//	    var resp Response
//	    arena := gcarena.New(gcarena.DefaultArenaParameters(), func(mc *gcarena.MutationContext) Root {
//	        return buildGraph(mc, req)
//	    })
//	    defer arena.Free()
//	    arena.Mutate(func(mc *gcarena.MutationContext, root Root) {
//	        resp = process(mc, root)
//	    })
//	    return resp
//	}
//
// Long-lived graph, paced incrementally:
//
//	for {
//	    arena.Mutate(step)
//	    arena.CollectDebt()
//	}
//
// # Requirements
//
// Go 1.25 or later (see go.mod); no build tags or experiments required.
// The collector is strictly single-threaded per arena: nothing in the core
// synchronizes access to an arena or its handles across goroutines (only
// SharedGcData, the static-root handle, carries a mutex).
//
// # Derivation and Static Analysis
//
// cmd/gcderive generates NeedsTrace/Trace method bodies for composite
// struct types from their field lists, the Go analogue of a derive macro.
// cmd/gcvet is a go/analysis-based checker that flags direct field writes
// to Gc-typed struct fields that bypass GcCell's write barrier.
//
// # Additional Resources
//
// Examples: the Patterns section above sketches request-scoped and
// long-lived use; gc_scenarios_test.go exercises churn, full-drop, and
// full-sweep scenarios end to end.
package gcarena
