package gcarena

import "testing"

func TestSimpleAllocation(t *testing.T) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) Gc[int] {
		return Allocate(mc, 42)
	})

	arena.Mutate(func(mc *MutationContext, root Gc[int]) {
		if got := *root.Value(); got != 42 {
			t.Fatalf("expected 42, got %d", got)
		}
	})
}

func TestMutableCellReadWrite(t *testing.T) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[int] {
		return AllocateCell(mc, 0)
	})

	arena.Mutate(func(mc *MutationContext, root GcCell[int]) {
		w := root.Write(mc)
		*w.Value() = 10
		w.Close()

		r := root.Read()
		defer r.Close()
		if got := *r.Value(); got != 10 {
			t.Fatalf("expected 10, got %d", got)
		}
	})
}

func TestWeakUpgradeRoundTrip(t *testing.T) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) Gc[int] {
		return Allocate(mc, 7)
	})

	arena.Mutate(func(mc *MutationContext, root Gc[int]) {
		weak := Downgrade(root)
		strong, ok := weak.Upgrade(mc)
		if !ok {
			t.Fatal("expected upgrade of a live target to succeed")
		}
		if !strong.Equal(root) {
			t.Fatal("expected upgraded pointer to share the root's identity")
		}
	})
}

type weakSweepRoot struct {
	Target GcCell[Gc[int]]
}

func (r *weakSweepRoot) NeedsTrace() bool            { return true }
func (r *weakSweepRoot) Trace(cc *CollectionContext) { r.Target.Trace(cc) }

func TestWeakUpgradeAfterSweepFails(t *testing.T) {
	var weak GcWeak[int]

	arena := New(ArenaParameters{}, func(mc *MutationContext) *weakSweepRoot {
		target := Allocate(mc, 99)
		weak = Downgrade(target)
		return &weakSweepRoot{Target: AllocateCell(mc, target)}
	})

	arena.Mutate(func(mc *MutationContext, r *weakSweepRoot) {
		w := r.Target.Write(mc)
		*w.Value() = Gc[int]{} // drop the only strong path to the old target
		w.Close()
	})

	arena.CollectAll()
	arena.CollectAll()

	arena.Mutate(func(mc *MutationContext, r *weakSweepRoot) {
		if _, ok := weak.Upgrade(mc); ok {
			t.Fatal("expected upgrade to fail once the target has been swept")
		}
	})
}

// --- needs_trace discrimination (spec §8 scenario 7 / tests.rs derive_collect) ---

type primitiveOnlyFields struct {
	A int
	B int
}

func (primitiveOnlyFields) NeedsTrace() bool         { return false }
func (primitiveOnlyFields) Trace(*CollectionContext) {}

type withManagedField struct {
	A int
	B Gc[int]
}

func (w withManagedField) NeedsTrace() bool { return Traceable(w.B.NeedsTrace()) }
func (w withManagedField) Trace(cc *CollectionContext) { TraceAll(cc, w.B) }

type withRequireStaticField struct {
	Field Inert[int]
}

func (w withRequireStaticField) NeedsTrace() bool { return Traceable(w.Field.NeedsTrace()) }
func (w withRequireStaticField) Trace(cc *CollectionContext) { TraceAll(cc, w.Field) }

func TestNeedsTraceDiscrimination(t *testing.T) {
	if (primitiveOnlyFields{}).NeedsTrace() {
		t.Error("struct of only primitive fields must not need tracing")
	}
	if !(withManagedField{}).NeedsTrace() {
		t.Error("struct containing a Gc field must need tracing")
	}
	if (withRequireStaticField{}).NeedsTrace() {
		t.Error("a field wrapped in Inert must be excluded from the needs-trace decision")
	}

	if needsTraceValue(new(int), 0) {
		t.Error("a plain int must be inert by default (no Collect implementation)")
	}
	if !needsTraceValue(&Gc[int]{}, Gc[int]{}) {
		t.Error("Gc[T] must always report needs_trace true")
	}
}

func TestWriteBarrierRegraysBlackContainer(t *testing.T) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[int] {
		return AllocateCell(mc, 1)
	})

	arena.Mutate(func(mc *MutationContext, root GcCell[int]) {
		// Simulate root having already been traced to Black this cycle.
		root.box.entry.color = colorBlack

		w := root.Write(mc)
		defer w.Close()

		if root.box.entry.color != colorGray {
			t.Fatalf("expected write barrier to re-gray a Black container, got %s", root.box.entry.color)
		}
	})
}

func TestRecursiveMutatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on recursive Mutate")
		}
	}()

	arena := New(ArenaParameters{}, func(mc *MutationContext) struct{} { return struct{}{} })
	arena.Mutate(func(mc *MutationContext, _ struct{}) {
		arena.Mutate(func(mc *MutationContext, _ struct{}) {})
	})
}

func TestStaleTokenPanics(t *testing.T) {
	var stale *MutationContext

	arena := New(ArenaParameters{}, func(mc *MutationContext) struct{} { return struct{}{} })
	arena.Mutate(func(mc *MutationContext, _ struct{}) {
		stale = mc
	})

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when allocating through a stale token")
		}
	}()
	Allocate(stale, 1)
}

func TestRootlessArena(t *testing.T) {
	executed := false
	Rootless(func(mc *MutationContext) {
		g := Allocate(mc, "hello")
		if *g.Value() != "hello" {
			t.Fatal("expected hello")
		}
		executed = true
	})
	if !executed {
		t.Fatal("expected Rootless callback to run")
	}
}
