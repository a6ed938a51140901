package gcarena

import "testing"

// FuzzChurn drives a random sequence of push/pop/collect operations against
// a managed slice and asserts the two invariants that must never break
// regardless of the sequence: the slice never observes a value through a
// pointer whose box has been swept, and CollectAll always drains every
// entry the slice no longer holds.
func FuzzChurn(f *testing.F) {
	f.Add(uint8(0x5a))
	f.Add(uint8(0x00))
	f.Add(uint8(0xff))

	f.Fuzz(func(t *testing.T, ops uint8) {
		arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[GcSlice[int]] {
			return AllocateCell(mc, GcSlice[int]{})
		})

		for i := 0; i < 8; i++ {
			bit := (ops >> uint(i)) & 1
			arena.Mutate(func(mc *MutationContext, root GcCell[GcSlice[int]]) {
				w := root.Write(mc)
				defer w.Close()
				items := *w.Value()

				if bit == 1 || len(items) == 0 {
					items = append(items, Allocate(mc, i))
				} else {
					items = items[:len(items)-1]
				}
				*w.Value() = items
			})
			arena.CollectDebt()
		}

		held := 0
		arena.Mutate(func(mc *MutationContext, root GcCell[GcSlice[int]]) {
			r := root.Read()
			defer r.Close()
			held = len(*r.Value())
			for _, g := range *r.Value() {
				if !g.IsValid() {
					t.Fatal("a pointer still reachable from the root must never be swept")
				}
				_ = *g.Value()
			}
		})

		arena.CollectAll()
		arena.CollectAll()

		if got := arena.Metrics().BoxCount; got != held+1 {
			t.Fatalf("expected only the root cell and the %d held boxes to survive, got %d boxes", held, got)
		}
	})
}

// FuzzWeakUpgrade checks that a weak pointer's upgrade result is always
// consistent with IsValid, across arbitrary numbers of intervening
// collection cycles.
func FuzzWeakUpgrade(f *testing.F) {
	f.Add(uint8(0), false)
	f.Add(uint8(2), true)

	f.Fuzz(func(t *testing.T, cycles uint8, dropBeforeCollect bool) {
		var weak GcWeak[int]

		arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[Gc[int]] {
			target := Allocate(mc, 1)
			weak = Downgrade(target)
			return AllocateCell(mc, target)
		})

		if dropBeforeCollect {
			arena.Mutate(func(mc *MutationContext, root GcCell[Gc[int]]) {
				w := root.Write(mc)
				defer w.Close()
				*w.Value() = Gc[int]{}
			})
		}

		for i := uint8(0); i < cycles%8; i++ {
			arena.CollectAll()
		}

		arena.Mutate(func(mc *MutationContext, root GcCell[Gc[int]]) {
			_, ok := weak.Upgrade(mc)
			if ok != weak.IsValid() {
				t.Fatalf("Upgrade()'s ok (%v) disagrees with IsValid() (%v)", ok, weak.IsValid())
			}
		})
	})
}
